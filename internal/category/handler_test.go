package category

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florinmsk/shop-api/internal/logging"
)

// fakeStore is an in-memory Store.
type fakeStore struct {
	categories map[int64]*Category
	nextID     int64
	listErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{categories: map[int64]*Category{}, nextID: 1}
}

func (f *fakeStore) add(name string, description *string) *Category {
	now := time.Now()
	cat := &Category{
		ID:          f.nextID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.categories[cat.ID] = cat
	f.nextID++
	return cat
}

func (f *fakeStore) List(ctx context.Context) ([]Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Category, 0, len(f.categories))
	for _, cat := range f.categories {
		out = append(out, *cat)
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Category, error) {
	cat, ok := f.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *cat
	return &copied, nil
}

func (f *fakeStore) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	for _, cat := range f.categories {
		if cat.Name == name && cat.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(ctx context.Context, name string, description *string) (*Category, error) {
	return f.add(name, description), nil
}

func (f *fakeStore) Update(ctx context.Context, id int64, name string, description *string) (*Category, error) {
	cat, ok := f.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	cat.Name = name
	cat.Description = description
	cat.UpdatedAt = time.Now()
	copied := *cat
	return &copied, nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.categories[id]; !ok {
		return ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func newTestRouter(store Store) *chi.Mux {
	h := NewHandler(store, logging.NewLogger(true))
	r := chi.NewRouter()
	r.Route("/v1/category", func(r chi.Router) {
		r.Get("/", h.Index)
		r.Post("/", h.Store)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Destroy)
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestIndex(t *testing.T) {
	t.Run("empty listing responds 404", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		rec := doRequest(t, router, http.MethodGet, "/v1/category/", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["status"])
		assert.Equal(t, "No categories found.", body["message"])
	})

	t.Run("populated listing", func(t *testing.T) {
		store := newFakeStore()
		store.add("Laptops", nil)
		store.add("Phones", nil)
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodGet, "/v1/category/", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["status"])
		assert.Equal(t, "Categories retrieved successfully.", body["message"])
		assert.Len(t, body["data"], 2)
	})

	t.Run("store failure responds 500", func(t *testing.T) {
		store := newFakeStore()
		store.listErr = errors.New("connection refused")
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodGet, "/v1/category/", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["status"])
		assert.Equal(t, "Database error: connection refused", body["error"])
	})
}

func TestShow(t *testing.T) {
	store := newFakeStore()
	created := store.add("Laptops", nil)
	router := newTestRouter(store)

	t.Run("found", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/category/1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["status"])
		assert.Equal(t, "Category retrieved successfully.", body["message"])

		data, ok := body["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(created.ID), data["id"])
		assert.Equal(t, "Laptops", data["name"])
	})

	t.Run("unknown id responds 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/category/99", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["status"])
		assert.Equal(t, "Category not found.", body["message"])
	})

	t.Run("non-numeric id responds 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/category/abc", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Category not found.", body["message"])
	})
}

func TestStore(t *testing.T) {
	t.Run("creates a category", func(t *testing.T) {
		store := newFakeStore()
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodPost, "/v1/category/", `{"name":"Laptops","description":"Portable computers"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["status"])
		assert.Equal(t, "Category successfully created.", body["message"])

		data, ok := body["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Laptops", data["name"])
		assert.Equal(t, "Portable computers", data["description"])
		assert.Len(t, store.categories, 1)
	})

	t.Run("missing name responds 422", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		rec := doRequest(t, router, http.MethodPost, "/v1/category/", `{"description":"whatever"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		assert.NotContains(t, body, "status")

		errs, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{"The category name is required."}, errs["name"])
	})

	t.Run("duplicate name responds 422", func(t *testing.T) {
		store := newFakeStore()
		store.add("Laptops", nil)
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodPost, "/v1/category/", `{"name":"Laptops"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		errs, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{"A category with this name already exists."}, errs["name"])
	})

	t.Run("overlong fields respond 422", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		payload, err := json.Marshal(map[string]any{
			"name":        strings.Repeat("a", 256),
			"description": strings.Repeat("b", 1001),
		})
		require.NoError(t, err)

		rec := doRequest(t, router, http.MethodPost, "/v1/category/", string(payload))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		errs, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{"The category name must not be greater than 255 characters."}, errs["name"])
		assert.Equal(t, []any{"The description must not be greater than 1000 characters."}, errs["description"])
	})

	t.Run("malformed body responds 422", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		rec := doRequest(t, router, http.MethodPost, "/v1/category/", `{not json`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		errs, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, errs, "body")
	})
}

func TestUpdate(t *testing.T) {
	t.Run("updates a category", func(t *testing.T) {
		store := newFakeStore()
		store.add("Laptops", nil)
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodPut, "/v1/category/1", `{"name":"Notebooks"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Category successfully updated.", body["message"])
		assert.Equal(t, "Notebooks", store.categories[1].Name)
	})

	t.Run("keeping its own name passes uniqueness", func(t *testing.T) {
		store := newFakeStore()
		store.add("Laptops", nil)
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodPut, "/v1/category/1", `{"name":"Laptops","description":"Updated"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("taking another category's name responds 422", func(t *testing.T) {
		store := newFakeStore()
		store.add("Laptops", nil)
		store.add("Phones", nil)
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodPut, "/v1/category/2", `{"name":"Laptops"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		errs, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{"A category with this name already exists."}, errs["name"])
	})

	t.Run("unknown id responds 404", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		rec := doRequest(t, router, http.MethodPut, "/v1/category/99", `{"name":"Laptops"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Category not found.", body["message"])
	})
}

func TestDestroy(t *testing.T) {
	t.Run("deletes a category", func(t *testing.T) {
		store := newFakeStore()
		store.add("Laptops", nil)
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodDelete, "/v1/category/1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["status"])
		assert.Equal(t, "Category successfully deleted.", body["message"])
		assert.Empty(t, store.categories)
	})

	t.Run("unknown id responds 404", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		rec := doRequest(t, router, http.MethodDelete, "/v1/category/99", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Category not found.", body["message"])
	})
}
