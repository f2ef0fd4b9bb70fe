package server

import (
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /:username/:post_id/comment/ and redirects back to
// the post view.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := parsePostID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	username := c.Params("username")

	_, err = s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		AuthorID:       mustUserID(c),
		PostAuthorName: username,
		PostID:         postID,
		Text:           c.FormValue("text"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Redirect(postURL(username, postID), fiber.StatusFound)
}
