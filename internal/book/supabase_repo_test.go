package book

import (
	"context"
	"net/http"
	"testing"
	"time"

	"booklog/internal/platform/supabase"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSupabaseURL = "http://supabase.test"

func newTestSupabaseRepo(t *testing.T) *SupabaseRepo {
	t.Cleanup(gock.Off)
	return NewSupabaseRepo(supabase.NewClient(testSupabaseURL, "anon-key", 5*time.Second))
}

func TestSupabaseRepo_GetByID(t *testing.T) {
	repo := newTestSupabaseRepo(t)

	gock.New(testSupabaseURL).
		Get("/rest/v1/books").
		MatchParam("id", "eq.2").
		MatchHeader("Accept", "application/vnd.pgrst.object\\+json").
		Reply(http.StatusOK).
		JSON(map[string]any{
			"id": 2, "title": "Emma", "author": "Austen", "number_of_pages": 474,
			"publisher": nil, "year_published": 1815, "description": nil, "read": true,
		})

	b, err := repo.GetByID(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, "Emma", b.Title)
	assert.Nil(t, b.Publisher)
	require.NotNil(t, b.YearPublished)
	assert.Equal(t, 1815, *b.YearPublished)
	assert.True(t, gock.IsDone())
}

func TestSupabaseRepo_GetByID_NotFound(t *testing.T) {
	repo := newTestSupabaseRepo(t)

	gock.New(testSupabaseURL).
		Get("/rest/v1/books").
		MatchParam("id", "eq.999").
		Reply(http.StatusNotAcceptable).
		JSON(map[string]string{
			"code":    "PGRST116",
			"message": "JSON object requested, multiple (or no) rows returned",
			"details": "The result contains 0 rows",
		})

	_, err := repo.GetByID(context.Background(), 999)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSupabaseRepo_ListOrdered(t *testing.T) {
	repo := newTestSupabaseRepo(t)

	gock.New(testSupabaseURL).
		Get("/rest/v1/books").
		MatchParam("order", `^title\.asc,id\.asc$`).
		MatchParam("select", booksColumns).
		Reply(http.StatusOK).
		JSON([]map[string]any{
			{"id": 1, "title": "Dune", "author": "Herbert", "number_of_pages": 412},
			{"id": 2, "title": "Emma", "author": "Austen", "number_of_pages": 474, "read": true},
		})

	books, err := repo.ListOrdered(context.Background(), ColumnTitle)

	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Title)
	assert.True(t, gock.IsDone())
}

func TestSupabaseRepo_ListOrdered_InvalidColumn(t *testing.T) {
	repo := newTestSupabaseRepo(t)

	_, err := repo.ListOrdered(context.Background(), Column("description"))

	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestSupabaseRepo_ListByRead(t *testing.T) {
	repo := newTestSupabaseRepo(t)

	gock.New(testSupabaseURL).
		Get("/rest/v1/books").
		MatchParam("read", "eq.false").
		MatchParam("order", `^id\.asc$`).
		Reply(http.StatusOK).
		JSON([]map[string]any{})

	books, err := repo.ListByRead(context.Background(), false)

	require.NoError(t, err)
	assert.Empty(t, books)
	assert.True(t, gock.IsDone())
}

func TestSupabaseRepo_Insert(t *testing.T) {
	repo := newTestSupabaseRepo(t)

	gock.New(testSupabaseURL).
		Post("/rest/v1/books").
		MatchHeader("Prefer", "return=representation").
		JSON(map[string]any{
			"title": "Dune", "author": "Herbert", "number_of_pages": 412,
			"publisher": nil, "year_published": nil, "description": nil, "read": false,
		}).
		Reply(http.StatusCreated).
		JSON([]map[string]any{{"id": 42, "title": "Dune", "author": "Herbert", "number_of_pages": 412}})

	b, err := repo.Insert(context.Background(), Fields{Title: "Dune", Author: "Herbert", NumberOfPages: 412})

	require.NoError(t, err)
	assert.Equal(t, int64(42), b.ID)
	assert.True(t, gock.IsDone())
}

func TestSupabaseRepo_Update(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		repo := newTestSupabaseRepo(t)

		gock.New(testSupabaseURL).
			Patch("/rest/v1/books").
			MatchParam("id", "eq.5").
			Reply(http.StatusOK).
			JSON([]map[string]any{{"id": 5, "title": "Dune", "author": "Herbert", "number_of_pages": 412}})

		b, err := repo.Update(context.Background(), 5, Fields{Title: "Dune", Author: "Herbert", NumberOfPages: 412})

		require.NoError(t, err)
		assert.Equal(t, int64(5), b.ID)
	})

	t.Run("no matching row", func(t *testing.T) {
		repo := newTestSupabaseRepo(t)

		gock.New(testSupabaseURL).
			Patch("/rest/v1/books").
			MatchParam("id", "eq.6").
			Reply(http.StatusOK).
			JSON([]map[string]any{})

		_, err := repo.Update(context.Background(), 6, Fields{Title: "Dune", Author: "Herbert", NumberOfPages: 412})

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSupabaseRepo_Delete(t *testing.T) {
	repo := newTestSupabaseRepo(t)

	gock.New(testSupabaseURL).
		Delete("/rest/v1/books").
		MatchParam("id", "eq.8").
		Reply(http.StatusNoContent)

	require.NoError(t, repo.Delete(context.Background(), 8))
	assert.True(t, gock.IsDone())
}

func TestSupabaseRepo_StoreErrorMessage(t *testing.T) {
	repo := newTestSupabaseRepo(t)

	gock.New(testSupabaseURL).
		Get("/rest/v1/books").
		Reply(http.StatusNotFound).
		JSON(map[string]string{"code": "42P01", "message": `relation "public.books" does not exist`})

	_, err := repo.ListOrdered(context.Background(), ColumnID)

	require.Error(t, err)
	assert.Equal(t, `relation "public.books" does not exist`, err.Error())
}
