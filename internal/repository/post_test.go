package repository

import (
	"context"
	"testing"

	"yatube/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{Text: "Hello world", AuthorID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, post)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	mock.ExpectQuery(`SELECT posts\.\*, \(SELECT COUNT\(\*\) FROM comments WHERE comments\.post_id = posts\.id\) AS comments_count FROM "posts" ORDER BY posts\.pub_date DESC, posts\.id DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "author_id", "comments_count"}).
			AddRow(2, "newer", 1, 3).
			AddRow(1, "older", 1, 0))

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "leo"))

	posts, total, err := repo.List(ctx, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Text)
	assert.Equal(t, 3, posts[0].CommentsCount)
	assert.Equal(t, "leo", posts[0].Author.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListFeed(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" JOIN follows ON follows\.author_id = posts\.author_id WHERE follows\.user_id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`FROM "posts" JOIN follows ON follows\.author_id = posts\.author_id WHERE follows\.user_id = \$1`).
		WithArgs(5, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "author_id"}).
			AddRow(9, "followed author post", 2))

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(2, "followed"))

	posts, total, err := repo.ListFeed(ctx, 5, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, posts, 1)
	assert.Equal(t, uint(2), posts[0].AuthorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByAuthorAndID_Mismatch(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`FROM "posts" WHERE posts\.id = \$1 AND posts\.author_id = \$2`).
		WithArgs(7, 99, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	post, err := repo.GetByAuthorAndID(ctx, 99, 7)
	assert.Error(t, err)
	assert.Nil(t, post)
	assert.True(t, models.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
