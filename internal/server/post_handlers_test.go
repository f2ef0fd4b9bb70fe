package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestPost(t *testing.T, db *gorm.DB, author *models.User, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID}
	require.NoError(t, db.Create(post).Error)
	return post
}

func postForm(t *testing.T, path string, fields map[string]string, cookie *http.Cookie) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestIndexListsPostsNewestFirst(t *testing.T) {
	_, app, db := newTestServer(t)
	author := createTestUser(t, db, "leo")
	createTestPost(t, db, author, "first")
	createTestPost(t, db, author, "second")

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	posts := body["posts"].([]any)
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].(map[string]any)["text"])
	assert.Equal(t, "first", posts[1].(map[string]any)["text"])
	assert.Equal(t, float64(1), body["num_pages"])
}

func TestIndexPagination(t *testing.T) {
	_, app, db := newTestServer(t)
	author := createTestUser(t, db, "leo")
	for i := 0; i < 13; i++ {
		createTestPost(t, db, author, fmt.Sprintf("post %d", i))
	}

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/?page=2", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(2), body["num_pages"])
	assert.Equal(t, float64(13), body["total"])
	assert.Len(t, body["posts"].([]any), 3)
	assert.Equal(t, false, body["has_next"])
	assert.Equal(t, true, body["has_prev"])
}

func TestCreatePost(t *testing.T) {
	s, app, db := newTestServer(t)
	author := createTestUser(t, db, "leo")
	cookie := authCookie(t, s, author)

	resp := doRequest(t, app, postForm(t, "/new/", map[string]string{"text": "hello world"}, cookie))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var post models.Post
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, "hello world", post.Text)
	assert.Equal(t, author.ID, post.AuthorID)
}

func TestCreatePostWithGroup(t *testing.T) {
	s, app, db := newTestServer(t)
	author := createTestUser(t, db, "leo")
	cookie := authCookie(t, s, author)

	group := &models.Group{Title: "Cats", Slug: "cats", Description: "cat talk"}
	require.NoError(t, db.Create(group).Error)

	resp := doRequest(t, app, postForm(t, "/new/", map[string]string{
		"text":  "group post",
		"group": fmt.Sprintf("%d", group.ID),
	}, cookie))
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var post models.Post
	require.NoError(t, db.First(&post).Error)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)

	// The group page now lists the post.
	pageResp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/group/cats/", nil))
	require.Equal(t, http.StatusOK, pageResp.StatusCode)
	body := decodeBody(t, pageResp)
	assert.Len(t, body["posts"].([]any), 1)
}

func TestCreatePostRequiresText(t *testing.T) {
	s, app, db := newTestServer(t)
	author := createTestUser(t, db, "leo")
	cookie := authCookie(t, s, author)

	resp := doRequest(t, app, postForm(t, "/new/", map[string]string{"text": "   "}, cookie))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreatePostRejectsUnknownGroup(t *testing.T) {
	s, app, db := newTestServer(t)
	author := createTestUser(t, db, "leo")
	cookie := authCookie(t, s, author)

	resp := doRequest(t, app, postForm(t, "/new/", map[string]string{
		"text":  "text",
		"group": "42",
	}, cookie))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGroupPageUnknownSlug404(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/group/nope/", nil))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostDetail(t *testing.T) {
	_, app, db := newTestServer(t)
	author := createTestUser(t, db, "leo")
	other := createTestUser(t, db, "mia")
	post := createTestPost(t, db, author, "visible")

	t.Run("found under its author", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/leo/%d/", post.ID), nil)
		resp := doRequest(t, app, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "visible", body["post"].(map[string]any)["text"])
	})

	t.Run("404 under another author", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/%s/%d/", other.Username, post.ID), nil)
		resp := doRequest(t, app, req)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("404 for unknown post id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/leo/99999/", nil)
		resp := doRequest(t, app, req)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestEditPost(t *testing.T) {
	s, app, db := newTestServer(t)
	author := createTestUser(t, db, "leo")
	intruder := createTestUser(t, db, "mia")
	post := createTestPost(t, db, author, "original")
	editURL := fmt.Sprintf("/leo/%d/edit/", post.ID)
	viewURL := fmt.Sprintf("/leo/%d/", post.ID)

	t.Run("author edits", func(t *testing.T) {
		resp := doRequest(t, app, postForm(t, editURL, map[string]string{"text": "edited"}, authCookie(t, s, author)))
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, viewURL, resp.Header.Get("Location"))

		var reloaded models.Post
		require.NoError(t, db.First(&reloaded, post.ID).Error)
		assert.Equal(t, "edited", reloaded.Text)
	})

	t.Run("non-author is redirected without editing", func(t *testing.T) {
		resp := doRequest(t, app, postForm(t, editURL, map[string]string{"text": "hijacked"}, authCookie(t, s, intruder)))
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, viewURL, resp.Header.Get("Location"))

		var reloaded models.Post
		require.NoError(t, db.First(&reloaded, post.ID).Error)
		assert.NotEqual(t, "hijacked", reloaded.Text)
	})

	t.Run("edit form redirects non-author", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, editURL, nil)
		req.AddCookie(authCookie(t, s, intruder))
		resp := doRequest(t, app, req)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, viewURL, resp.Header.Get("Location"))
	})
}

func TestProfilePage(t *testing.T) {
	_, app, db := newTestServer(t)
	author := createTestUser(t, db, "leo")
	createTestPost(t, db, author, "mine")

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/leo/", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "leo", body["author"].(map[string]any)["username"])
	assert.Len(t, body["posts"].([]any), 1)
	assert.Equal(t, float64(0), body["followers"])
	assert.Equal(t, false, body["following"])
}
