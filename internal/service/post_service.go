package service

import (
	"context"
	"strings"

	"yatube/internal/cache"
	"yatube/internal/imaging"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// PageSize is the number of posts per page on every listing.
const PageSize = 10

const maxPostTextLen = 50000

// PostPage is one page of a post listing plus the paginator state the
// templates need. It serializes cleanly, which lets the index page live
// in Redis as a whole.
type PostPage struct {
	Posts    []*models.Post `json:"posts"`
	Page     int            `json:"page"`
	NumPages int            `json:"num_pages"`
	Total    int64          `json:"total"`
	HasNext  bool           `json:"has_next"`
	HasPrev  bool           `json:"has_prev"`
}

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	images    *imaging.Store
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint

	// Optional upload. Filename and ContentType come from the multipart part.
	ImageContent     []byte
	ImageFilename    string
	ImageContentType string
}

type UpdatePostInput struct {
	EditorID       uint
	AuthorUsername string
	PostID         uint
	Text           string
	GroupID        *uint

	ImageContent     []byte
	ImageFilename    string
	ImageContentType string
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	images *imaging.Store,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		images:    images,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(text) > maxPostTextLen {
		return nil, models.NewValidationError("Text too long (max 50000 characters)")
	}

	if in.GroupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *in.GroupID); err != nil {
			if models.IsNotFound(err) {
				return nil, models.NewValidationError("Unknown group")
			}
			return nil, err
		}
	}

	post := &models.Post{
		Text:     text,
		AuthorID: in.AuthorID,
		GroupID:  in.GroupID,
	}

	if len(in.ImageContent) > 0 {
		stored, err := s.images.Save(in.ImageContent, in.ImageFilename, in.ImageContentType)
		if err != nil {
			return nil, err
		}
		post.ImagePath = stored.OriginalPath
		post.ImageHash = stored.Hash
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()
	return post, nil
}

// Index returns one page of the global post listing. Pages are cached for a
// short window and expire strictly by time, so a fresh post can take up to
// the TTL to appear.
func (s *PostService) Index(ctx context.Context, page int) (*PostPage, error) {
	page = normalizePage(page)

	var result PostPage
	err := cache.Aside(ctx, cache.IndexPageKey(page), &result, cache.IndexPageTTL, func() error {
		fetched, err := s.fetchPage(ctx, page, func(limit, offset int) ([]*models.Post, int64, error) {
			return s.postRepo.List(ctx, limit, offset)
		})
		if err != nil {
			return err
		}
		result = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GroupPosts returns the group and one page of its posts. An unknown slug is
// a not found error.
func (s *PostService) GroupPosts(ctx context.Context, slug string, page int) (*models.Group, *PostPage, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	pageData, err := s.fetchPage(ctx, normalizePage(page), func(limit, offset int) ([]*models.Post, int64, error) {
		return s.postRepo.ListByGroup(ctx, group.ID, limit, offset)
	})
	if err != nil {
		return nil, nil, err
	}
	return group, pageData, nil
}

// ProfilePosts returns the author and one page of their posts.
func (s *PostService) ProfilePosts(ctx context.Context, username string, page int) (*models.User, *PostPage, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	pageData, err := s.fetchPage(ctx, normalizePage(page), func(limit, offset int) ([]*models.Post, int64, error) {
		return s.postRepo.ListByAuthor(ctx, author.ID, limit, offset)
	})
	if err != nil {
		return nil, nil, err
	}
	return author, pageData, nil
}

// Feed returns one page of posts by authors the user follows. A user who
// follows nobody gets an empty page, not an error.
func (s *PostService) Feed(ctx context.Context, userID uint, page int) (*PostPage, error) {
	return s.fetchPage(ctx, normalizePage(page), func(limit, offset int) ([]*models.Post, int64, error) {
		return s.postRepo.ListFeed(ctx, userID, limit, offset)
	})
}

// GetPost resolves the post view: the post must exist and belong to the named
// author, otherwise the pair reads as not found.
func (s *PostService) GetPost(ctx context.Context, username string, postID uint) (*models.Post, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByAuthorAndID(ctx, author.ID, postID)
}

// UpdatePost edits a post in place. Only the author may edit; anyone else
// gets an unauthorized error the handler turns into a redirect to the post.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, in.AuthorUsername, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.EditorID {
		return nil, models.NewUnauthorizedError("Only the author can edit this post")
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(text) > maxPostTextLen {
		return nil, models.NewValidationError("Text too long (max 50000 characters)")
	}

	if in.GroupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *in.GroupID); err != nil {
			if models.IsNotFound(err) {
				return nil, models.NewValidationError("Unknown group")
			}
			return nil, err
		}
	}

	post.Text = text
	post.GroupID = in.GroupID

	if len(in.ImageContent) > 0 {
		stored, err := s.images.Save(in.ImageContent, in.ImageFilename, in.ImageContentType)
		if err != nil {
			return nil, err
		}
		post.ImagePath = stored.OriginalPath
		post.ImageHash = stored.Hash
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Groups lists every group for the post form's group selector.
func (s *PostService) Groups(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}

// fetchPage runs the list query for a page, clamping an out of range page to
// the last one the way a template paginator would.
func (s *PostService) fetchPage(ctx context.Context, page int, list func(limit, offset int) ([]*models.Post, int64, error)) (*PostPage, error) {
	offset := (page - 1) * PageSize
	posts, total, err := list(PageSize, offset)
	if err != nil {
		return nil, err
	}

	numPages := int((total + PageSize - 1) / PageSize)
	if numPages < 1 {
		numPages = 1
	}
	if page > numPages {
		page = numPages
		offset = (page - 1) * PageSize
		posts, total, err = list(PageSize, offset)
		if err != nil {
			return nil, err
		}
	}

	if posts == nil {
		posts = []*models.Post{}
	}
	return &PostPage{
		Posts:    posts,
		Page:     page,
		NumPages: numPages,
		Total:    total,
		HasNext:  page < numPages,
		HasPrev:  page > 1,
	}, nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
