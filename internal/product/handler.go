package product

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/florinmsk/shop-api/internal/httputil"
	"github.com/florinmsk/shop-api/internal/logging"
	"github.com/florinmsk/shop-api/internal/validation"
)

// Store is the slice of the product repository the handlers need.
type Store interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, fields Fields) (*Product, error)
	Update(ctx context.Context, id int64, fields Fields) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryChecker verifies that a referenced category exists and is live.
type CategoryChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Handler contains HTTP handlers for product CRUD.
type Handler struct {
	store      Store
	categories CategoryChecker
	logger     *logging.Logger
}

func NewHandler(store Store, categories CategoryChecker, logger *logging.Logger) *Handler {
	return &Handler{store: store, categories: categories, logger: logger}
}

// Request is the create/update request body. Numeric fields are pointers so
// a missing field can be told apart from a legitimate zero.
type Request struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Image       string   `json:"image"`
	Quantity    *int     `json:"quantity"`
	Status      string   `json:"status"`
	Price       *float64 `json:"price"`
	CategoryID  *int64   `json:"category_id"`
}

const maxNameLen = 255

func (h *Handler) validate(ctx context.Context, req Request, excludeID int64) (Fields, validation.Errors, error) {
	bag := validation.NewBag()

	switch {
	case req.Name == "":
		bag.Add("name", "The product name is required.")
	case len(req.Name) > maxNameLen:
		bag.Add("name", "The product name must not be greater than 255 characters.")
	default:
		taken, err := h.store.NameExists(ctx, req.Name, excludeID)
		if err != nil {
			return Fields{}, nil, err
		}
		if taken {
			bag.Add("name", "A product with this name already exists.")
		}
	}

	if req.Image == "" {
		bag.Add("image", "The image is required.")
	}

	switch {
	case req.Quantity == nil:
		bag.Add("quantity", "The quantity is required.")
	case *req.Quantity < 0:
		bag.Add("quantity", "The quantity must be at least 0.")
	}

	if req.Status == "" {
		bag.Add("status", "The status is required.")
	}

	switch {
	case req.Price == nil:
		bag.Add("price", "The price is required.")
	case *req.Price < 0:
		bag.Add("price", "The price must be at least 0.")
	}

	switch {
	case req.CategoryID == nil:
		bag.Add("category_id", "The category id is required.")
	default:
		exists, err := h.categories.Exists(ctx, *req.CategoryID)
		if err != nil {
			return Fields{}, nil, err
		}
		if !exists {
			bag.Add("category_id", "The selected category id is invalid.")
		}
	}

	if bag.Failed() {
		return Fields{}, bag.Fields(), nil
	}

	return Fields{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Quantity:    *req.Quantity,
		Status:      req.Status,
		Price:       *req.Price,
		CategoryID:  *req.CategoryID,
	}, nil, nil
}

// Index lists all products
// @Summary      List products
// @Tags         product
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope "No products found"
// @Failure      500 {object} httputil.Envelope
// @Router       /v1/product [get]
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	products, err := h.store.List(r.Context())
	if err != nil {
		logger.Error("failed to list products", "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	if len(products) == 0 {
		httputil.RespondFailure(w, "No products found.", http.StatusNotFound)
		return
	}

	httputil.RespondSuccess(w, "Products retrieved successfully.", products, http.StatusOK)
}

// Show returns one product
// @Summary      Get a product by id
// @Tags         product
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product id"
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope
// @Failure      500 {object} httputil.Envelope
// @Router       /v1/product/{id} [get]
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	prod, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondFailure(w, "Product not found.", http.StatusNotFound)
			return
		}
		logger.Error("failed to get product", "product_id", id, "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	httputil.RespondSuccess(w, "Product retrieved successfully.", prod, http.StatusOK)
}

// Store creates a product
// @Summary      Create a product
// @Tags         product
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body Request true "Product fields"
// @Success      201 {object} httputil.Envelope
// @Failure      422 {object} map[string]map[string][]string "Validation errors"
// @Failure      500 {object} httputil.Envelope
// @Router       /v1/product [post]
func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	req, ok := decodeRequest(w, r, logger)
	if !ok {
		return
	}

	fields, fieldErrs, err := h.validate(r.Context(), req, 0)
	if err != nil {
		logger.Error("failed to validate product", "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}
	if fieldErrs != nil {
		httputil.RespondValidationErrors(w, fieldErrs)
		return
	}

	prod, err := h.store.Create(r.Context(), fields)
	if err != nil {
		logger.Error("failed to create product", "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	logger.Info("product created", "product_id", prod.ID)

	httputil.RespondSuccess(w, "Product successfully created.", prod, http.StatusCreated)
}

// Update modifies a product
// @Summary      Update a product
// @Tags         product
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product id"
// @Param        request body Request true "Product fields"
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope
// @Failure      422 {object} map[string]map[string][]string "Validation errors"
// @Failure      500 {object} httputil.Envelope
// @Router       /v1/product/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	req, ok := decodeRequest(w, r, logger)
	if !ok {
		return
	}

	fields, fieldErrs, err := h.validate(r.Context(), req, id)
	if err != nil {
		logger.Error("failed to validate product", "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}
	if fieldErrs != nil {
		httputil.RespondValidationErrors(w, fieldErrs)
		return
	}

	prod, err := h.store.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondFailure(w, "Product not found.", http.StatusNotFound)
			return
		}
		logger.Error("failed to update product", "product_id", id, "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	logger.Info("product updated", "product_id", prod.ID)

	httputil.RespondSuccess(w, "Product successfully updated.", prod, http.StatusOK)
}

// Destroy soft-deletes a product
// @Summary      Delete a product
// @Tags         product
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product id"
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope
// @Failure      500 {object} httputil.Envelope
// @Router       /v1/product/{id} [delete]
func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondFailure(w, "Product not found.", http.StatusNotFound)
			return
		}
		logger.Error("failed to delete product", "product_id", id, "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	logger.Info("product deleted", "product_id", id)

	httputil.RespondJSON(w, httputil.Envelope{
		Status:  true,
		Message: "Product successfully soft deleted.",
	}, http.StatusOK)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondFailure(w, "Product not found.", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request, logger *logging.Logger) (Request, bool) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid product request body", "error", err.Error())
		bag := validation.NewBag()
		bag.Add("body", "The request body must be valid JSON.")
		httputil.RespondValidationErrors(w, bag.Fields())
		return Request{}, false
	}
	return req, true
}
