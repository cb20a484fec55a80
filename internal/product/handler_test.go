package product

import (
	"context"
	"encoding/json"
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
	products map[int64]*Product
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: map[int64]*Product{}, nextID: 1}
}

func (f *fakeStore) add(fields Fields) *Product {
	now := time.Now()
	prod := &Product{
		ID:          f.nextID,
		Name:        fields.Name,
		Description: fields.Description,
		Image:       fields.Image,
		Quantity:    fields.Quantity,
		Status:      fields.Status,
		Price:       fields.Price,
		CategoryID:  fields.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.products[prod.ID] = prod
	f.nextID++
	return prod
}

func (f *fakeStore) List(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0, len(f.products))
	for _, prod := range f.products {
		out = append(out, *prod)
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Product, error) {
	prod, ok := f.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *prod
	return &copied, nil
}

func (f *fakeStore) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	for _, prod := range f.products {
		if prod.Name == name && prod.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(ctx context.Context, fields Fields) (*Product, error) {
	return f.add(fields), nil
}

func (f *fakeStore) Update(ctx context.Context, id int64, fields Fields) (*Product, error) {
	prod, ok := f.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	prod.Name = fields.Name
	prod.Description = fields.Description
	prod.Image = fields.Image
	prod.Quantity = fields.Quantity
	prod.Status = fields.Status
	prod.Price = fields.Price
	prod.CategoryID = fields.CategoryID
	prod.UpdatedAt = time.Now()
	copied := *prod
	return &copied, nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return ErrNotFound
	}
	delete(f.products, id)
	return nil
}

// fakeCategoryChecker knows a fixed set of live category ids.
type fakeCategoryChecker struct {
	ids map[int64]bool
}

func (f *fakeCategoryChecker) Exists(ctx context.Context, id int64) (bool, error) {
	return f.ids[id], nil
}

func newTestRouter(store Store) *chi.Mux {
	checker := &fakeCategoryChecker{ids: map[int64]bool{1: true, 2: true}}
	h := NewHandler(store, checker, logging.NewLogger(true))
	r := chi.NewRouter()
	r.Route("/v1/product", func(r chi.Router) {
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
	req := httptest.NewRequest(method, path, strings.NewReader(body))
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

func validPayload() string {
	return `{"name":"ThinkPad X1","image":"thinkpad.png","quantity":10,"status":"in_stock","price":1899.99,"category_id":1}`
}

func sampleFields() Fields {
	return Fields{
		Name:       "ThinkPad X1",
		Image:      "thinkpad.png",
		Quantity:   10,
		Status:     "in_stock",
		Price:      1899.99,
		CategoryID: 1,
	}
}

func TestIndex(t *testing.T) {
	t.Run("empty listing responds 404", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		rec := doRequest(t, router, http.MethodGet, "/v1/product/", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["status"])
		assert.Equal(t, "No products found.", body["message"])
	})

	t.Run("populated listing", func(t *testing.T) {
		store := newFakeStore()
		store.add(sampleFields())
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodGet, "/v1/product/", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["status"])
		assert.Equal(t, "Products retrieved successfully.", body["message"])
		assert.Len(t, body["data"], 1)
	})
}

func TestShow(t *testing.T) {
	store := newFakeStore()
	store.add(sampleFields())
	router := newTestRouter(store)

	t.Run("found", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/product/1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Product retrieved successfully.", body["message"])

		data, ok := body["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ThinkPad X1", data["name"])
		assert.Equal(t, 1899.99, data["price"])
	})

	t.Run("unknown id responds 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/product/99", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["status"])
		assert.Equal(t, "Product not found.", body["message"])
	})

	t.Run("non-numeric id responds 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/product/abc", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestStore(t *testing.T) {
	t.Run("creates a product", func(t *testing.T) {
		store := newFakeStore()
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodPost, "/v1/product/", validPayload())

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["status"])
		assert.Equal(t, "Product successfully created.", body["message"])
		assert.Len(t, store.products, 1)
	})

	t.Run("empty body collects every field error", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		rec := doRequest(t, router, http.MethodPost, "/v1/product/", `{}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		assert.NotContains(t, body, "status")

		errs, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{"The product name is required."}, errs["name"])
		assert.Equal(t, []any{"The image is required."}, errs["image"])
		assert.Equal(t, []any{"The quantity is required."}, errs["quantity"])
		assert.Equal(t, []any{"The status is required."}, errs["status"])
		assert.Equal(t, []any{"The price is required."}, errs["price"])
		assert.Equal(t, []any{"The category id is required."}, errs["category_id"])
	})

	t.Run("zero quantity and price are valid", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		payload := `{"name":"Freebie","image":"freebie.png","quantity":0,"status":"in_stock","price":0,"category_id":1}`
		rec := doRequest(t, router, http.MethodPost, "/v1/product/", payload)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("negative quantity and price respond 422", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		payload := `{"name":"Broken","image":"broken.png","quantity":-1,"status":"in_stock","price":-0.5,"category_id":1}`
		rec := doRequest(t, router, http.MethodPost, "/v1/product/", payload)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		errs, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{"The quantity must be at least 0."}, errs["quantity"])
		assert.Equal(t, []any{"The price must be at least 0."}, errs["price"])
	})

	t.Run("unknown category responds 422", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		payload := `{"name":"Orphan","image":"orphan.png","quantity":1,"status":"in_stock","price":9.99,"category_id":99}`
		rec := doRequest(t, router, http.MethodPost, "/v1/product/", payload)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		errs, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{"The selected category id is invalid."}, errs["category_id"])
	})

	t.Run("duplicate name responds 422", func(t *testing.T) {
		store := newFakeStore()
		store.add(sampleFields())
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodPost, "/v1/product/", validPayload())

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		errs, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{"A product with this name already exists."}, errs["name"])
	})

	t.Run("malformed body responds 422", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		rec := doRequest(t, router, http.MethodPost, "/v1/product/", `{not json`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		errs, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, errs, "body")
	})
}

func TestUpdate(t *testing.T) {
	t.Run("updates a product", func(t *testing.T) {
		store := newFakeStore()
		store.add(sampleFields())
		router := newTestRouter(store)

		payload := `{"name":"ThinkPad X1 Carbon","image":"thinkpad.png","quantity":5,"status":"in_stock","price":2099.99,"category_id":2}`
		rec := doRequest(t, router, http.MethodPut, "/v1/product/1", payload)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Product successfully updated.", body["message"])
		assert.Equal(t, "ThinkPad X1 Carbon", store.products[1].Name)
		assert.Equal(t, int64(2), store.products[1].CategoryID)
	})

	t.Run("keeping its own name passes uniqueness", func(t *testing.T) {
		store := newFakeStore()
		store.add(sampleFields())
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodPut, "/v1/product/1", validPayload())

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown id responds 404", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		rec := doRequest(t, router, http.MethodPut, "/v1/product/99", validPayload())

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Product not found.", body["message"])
	})
}

func TestDestroy(t *testing.T) {
	t.Run("soft deletes a product", func(t *testing.T) {
		store := newFakeStore()
		store.add(sampleFields())
		router := newTestRouter(store)

		rec := doRequest(t, router, http.MethodDelete, "/v1/product/1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["status"])
		assert.Equal(t, "Product successfully soft deleted.", body["message"])
		assert.Empty(t, store.products)
	})

	t.Run("unknown id responds 404", func(t *testing.T) {
		router := newTestRouter(newFakeStore())

		rec := doRequest(t, router, http.MethodDelete, "/v1/product/99", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Product not found.", body["message"])
	})
}
