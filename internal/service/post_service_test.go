package service

import (
	"context"
	"testing"

	"yatube/internal/imaging"
	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPostServiceForTest() (*PostService, *MockPostRepository, *MockGroupRepository, *MockUserRepository) {
	postRepo := new(MockPostRepository)
	groupRepo := new(MockGroupRepository)
	userRepo := new(MockUserRepository)
	svc := NewPostService(postRepo, groupRepo, userRepo, imaging.NewStore(nil))
	return svc, postRepo, groupRepo, userRepo
}

func TestPostService_CreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("requires text", func(t *testing.T) {
		svc, _, _, _ := newPostServiceForTest()
		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Text: "   "})
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
	})

	t.Run("rejects unknown group", func(t *testing.T) {
		svc, _, groupRepo, _ := newPostServiceForTest()
		groupID := uint(9)
		groupRepo.On("GetByID", mock.Anything, groupID).
			Return(nil, models.NewNotFoundError("Group", groupID))

		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Text: "hello", GroupID: &groupID})
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
	})

	t.Run("creates and trims", func(t *testing.T) {
		svc, postRepo, _, _ := newPostServiceForTest()
		postRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
			return p.Text == "hello" && p.AuthorID == 1 && p.GroupID == nil
		})).Return(nil)

		post, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Text: "  hello  "})
		require.NoError(t, err)
		assert.Equal(t, "hello", post.Text)
		postRepo.AssertExpectations(t)
	})
}

func TestPostService_Index_Pagination(t *testing.T) {
	ctx := context.Background()
	svc, postRepo, _, _ := newPostServiceForTest()

	posts := []*models.Post{{ID: 2, Text: "b"}, {ID: 1, Text: "a"}}
	postRepo.On("List", mock.Anything, PageSize, 0).Return(posts, int64(25), nil)

	page, err := svc.Index(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.NumPages)
	assert.Equal(t, int64(25), page.Total)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)
	assert.Len(t, page.Posts, 2)
}

func TestPostService_Index_ClampsPastLastPage(t *testing.T) {
	ctx := context.Background()
	svc, postRepo, _, _ := newPostServiceForTest()

	// Page 99 is out of range for 15 posts, so the service retries the last page.
	postRepo.On("List", mock.Anything, PageSize, 98*PageSize).
		Return([]*models.Post{}, int64(15), nil).Once()
	postRepo.On("List", mock.Anything, PageSize, PageSize).
		Return([]*models.Post{{ID: 1}}, int64(15), nil).Once()

	page, err := svc.Index(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.NumPages)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)
	postRepo.AssertExpectations(t)
}

func TestPostService_Feed_EmptyWithoutFollows(t *testing.T) {
	ctx := context.Background()
	svc, postRepo, _, _ := newPostServiceForTest()

	postRepo.On("ListFeed", mock.Anything, uint(5), PageSize, 0).
		Return([]*models.Post{}, int64(0), nil)

	page, err := svc.Feed(ctx, 5, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 1, page.NumPages)
	assert.False(t, page.HasNext)
}

func TestPostService_GetPost_AuthorMismatch(t *testing.T) {
	ctx := context.Background()
	svc, postRepo, _, userRepo := newPostServiceForTest()

	userRepo.On("GetByUsername", mock.Anything, "leo").
		Return(&models.User{ID: 3, Username: "leo"}, nil)
	postRepo.On("GetByAuthorAndID", mock.Anything, uint(3), uint(7)).
		Return(nil, models.NewNotFoundError("Post", 7))

	_, err := svc.GetPost(ctx, "leo", 7)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestPostService_UpdatePost_OnlyAuthor(t *testing.T) {
	ctx := context.Background()
	svc, postRepo, _, userRepo := newPostServiceForTest()

	userRepo.On("GetByUsername", mock.Anything, "leo").
		Return(&models.User{ID: 3, Username: "leo"}, nil)
	postRepo.On("GetByAuthorAndID", mock.Anything, uint(3), uint(7)).
		Return(&models.Post{ID: 7, AuthorID: 3, Text: "original"}, nil)

	_, err := svc.UpdatePost(ctx, UpdatePostInput{
		EditorID:       4,
		AuthorUsername: "leo",
		PostID:         7,
		Text:           "hijacked",
	})
	require.Error(t, err)
	assert.True(t, models.IsUnauthorized(err))
	postRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPostService_UpdatePost_Success(t *testing.T) {
	ctx := context.Background()
	svc, postRepo, _, userRepo := newPostServiceForTest()

	userRepo.On("GetByUsername", mock.Anything, "leo").
		Return(&models.User{ID: 3, Username: "leo"}, nil)
	postRepo.On("GetByAuthorAndID", mock.Anything, uint(3), uint(7)).
		Return(&models.Post{ID: 7, AuthorID: 3, Text: "original"}, nil)
	postRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		return p.ID == 7 && p.Text == "edited"
	})).Return(nil)

	post, err := svc.UpdatePost(ctx, UpdatePostInput{
		EditorID:       3,
		AuthorUsername: "leo",
		PostID:         7,
		Text:           "edited",
	})
	require.NoError(t, err)
	assert.Equal(t, "edited", post.Text)
	postRepo.AssertExpectations(t)
}
