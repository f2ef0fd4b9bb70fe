package server

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET / with the paginated global post listing.
func (s *Server) Index(c *fiber.Ctx) error {
	page, err := s.postService.Index(c.UserContext(), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// NewPostForm handles GET /new/ and returns the data the post form needs.
func (s *Server) NewPostForm(c *fiber.Ctx) error {
	groups, err := s.postService.Groups(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"page":   "new_post",
		"groups": groups,
	})
}

// CreatePost handles POST /new/ and redirects to the index on success.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	in := service.CreatePostInput{
		AuthorID: mustUserID(c),
		Text:     c.FormValue("text"),
	}

	groupID, err := parseGroupField(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	in.GroupID = groupID

	content, filename, contentType, err := readImageField(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	in.ImageContent = content
	in.ImageFilename = filename
	in.ImageContentType = contentType

	if _, err := s.postService.CreatePost(c.UserContext(), in); err != nil {
		return respondServiceError(c, err)
	}
	return c.Redirect("/", fiber.StatusFound)
}

// PostDetail handles GET /:username/:post_id/ with the post and its comments.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	postID, err := parsePostID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	post, err := s.postService.GetPost(c.UserContext(), c.Params("username"), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	comments, err := s.commentService.ListForPost(c.UserContext(), post.ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"author":   post.Author,
		"comments": comments,
	})
}

// EditPostForm handles GET /:username/:post_id/edit/. Anyone but the author
// is sent back to the post view instead of the form.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	postID, err := parsePostID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	username := c.Params("username")

	post, err := s.postService.GetPost(c.UserContext(), username, postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if post.AuthorID != mustUserID(c) {
		return c.Redirect(postURL(username, postID), fiber.StatusFound)
	}

	groups, err := s.postService.Groups(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"page":   "edit_post",
		"post":   post,
		"groups": groups,
	})
}

// UpdatePost handles POST /:username/:post_id/edit/ and redirects to the
// post view. A non-author submission is redirected there without editing.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parsePostID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	username := c.Params("username")

	in := service.UpdatePostInput{
		EditorID:       mustUserID(c),
		AuthorUsername: username,
		PostID:         postID,
		Text:           c.FormValue("text"),
	}

	groupID, err := parseGroupField(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	in.GroupID = groupID

	content, filename, contentType, err := readImageField(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	in.ImageContent = content
	in.ImageFilename = filename
	in.ImageContentType = contentType

	if _, err := s.postService.UpdatePost(c.UserContext(), in); err != nil {
		if models.IsUnauthorized(err) {
			return c.Redirect(postURL(username, postID), fiber.StatusFound)
		}
		return respondServiceError(c, err)
	}
	return c.Redirect(postURL(username, postID), fiber.StatusFound)
}

// ServeMedia handles GET /media/* for uploaded images.
func (s *Server) ServeMedia(c *fiber.Ctx) error {
	rel := strings.TrimPrefix(c.Params("*"), "/")
	full, err := s.images.Resolve(rel)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.SendFile(full)
}

func postURL(username string, postID uint) string {
	return fmt.Sprintf("/%s/%d/", username, postID)
}

// parseGroupField reads the optional group form field. An empty value means
// no group; a non-numeric value is a validation error.
func parseGroupField(c *fiber.Ctx) (*uint, error) {
	raw := strings.TrimSpace(c.FormValue("group"))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil, models.NewValidationError("Invalid group")
	}
	groupID := uint(id)
	return &groupID, nil
}

// readImageField reads the optional image multipart part into memory.
// A missing part is not an error.
func readImageField(c *fiber.Ctx) (content []byte, filename, contentType string, err error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, "", "", nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", "", models.NewInternalError(err)
	}
	defer func() { _ = f.Close() }()

	content, err = io.ReadAll(f)
	if err != nil {
		return nil, "", "", models.NewInternalError(err)
	}
	return content, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), nil
}
