package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment(t *testing.T) {
	s, app, db := newTestServer(t)
	author := createTestUser(t, db, "leo")
	commenter := createTestUser(t, db, "mia")
	post := createTestPost(t, db, author, "discuss")
	commentURL := fmt.Sprintf("/leo/%d/comment/", post.ID)
	viewURL := fmt.Sprintf("/leo/%d/", post.ID)

	t.Run("redirects anonymous to login", func(t *testing.T) {
		resp := doRequest(t, app, postForm(t, commentURL, map[string]string{"text": "hi"}, nil))
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/auth/login/?next="))
	})

	t.Run("creates and redirects to post", func(t *testing.T) {
		resp := doRequest(t, app, postForm(t, commentURL, map[string]string{"text": "well put"}, authCookie(t, s, commenter)))
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, viewURL, resp.Header.Get("Location"))

		var comment models.Comment
		require.NoError(t, db.First(&comment).Error)
		assert.Equal(t, "well put", comment.Text)
		assert.Equal(t, commenter.ID, comment.AuthorID)
		assert.Equal(t, post.ID, comment.PostID)
	})

	t.Run("appears on the post detail page", func(t *testing.T) {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, viewURL, nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		comments := body["comments"].([]any)
		require.Len(t, comments, 1)
		assert.Equal(t, "well put", comments[0].(map[string]any)["text"])
	})

	t.Run("rejects empty text", func(t *testing.T) {
		resp := doRequest(t, app, postForm(t, commentURL, map[string]string{"text": " "}, authCookie(t, s, commenter)))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("404 for post under wrong author", func(t *testing.T) {
		wrongURL := fmt.Sprintf("/mia/%d/comment/", post.ID)
		resp := doRequest(t, app, postForm(t, wrongURL, map[string]string{"text": "hi"}, authCookie(t, s, commenter)))
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
