package category

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

// Store is the slice of the repository the handlers need.
type Store interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, name string, description *string) (*Category, error)
	Update(ctx context.Context, id int64, name string, description *string) (*Category, error)
	Delete(ctx context.Context, id int64) error
}

// Handler contains HTTP handlers for category CRUD.
type Handler struct {
	store  Store
	logger *logging.Logger
}

func NewHandler(store Store, logger *logging.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Request is the create/update request body.
type Request struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

const maxNameLen = 255
const maxDescriptionLen = 1000

func (h *Handler) validate(ctx context.Context, req Request, excludeID int64) (validation.Errors, error) {
	bag := validation.NewBag()

	switch {
	case req.Name == "":
		bag.Add("name", "The category name is required.")
	case len(req.Name) > maxNameLen:
		bag.Add("name", "The category name must not be greater than 255 characters.")
	default:
		taken, err := h.store.NameExists(ctx, req.Name, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			bag.Add("name", "A category with this name already exists.")
		}
	}

	if req.Description != nil && len(*req.Description) > maxDescriptionLen {
		bag.Add("description", "The description must not be greater than 1000 characters.")
	}

	if bag.Failed() {
		return bag.Fields(), nil
	}
	return nil, nil
}

// Index lists all categories
// @Summary      List categories
// @Tags         category
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope "No categories found"
// @Failure      500 {object} httputil.Envelope
// @Router       /v1/category [get]
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	categories, err := h.store.List(r.Context())
	if err != nil {
		logger.Error("failed to list categories", "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	if len(categories) == 0 {
		httputil.RespondFailure(w, "No categories found.", http.StatusNotFound)
		return
	}

	httputil.RespondSuccess(w, "Categories retrieved successfully.", categories, http.StatusOK)
}

// Show returns one category
// @Summary      Get a category by id
// @Tags         category
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Category id"
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope
// @Failure      500 {object} httputil.Envelope
// @Router       /v1/category/{id} [get]
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	cat, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondFailure(w, "Category not found.", http.StatusNotFound)
			return
		}
		logger.Error("failed to get category", "category_id", id, "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	httputil.RespondSuccess(w, "Category retrieved successfully.", cat, http.StatusOK)
}

// Store creates a category
// @Summary      Create a category
// @Tags         category
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body Request true "Category fields"
// @Success      201 {object} httputil.Envelope
// @Failure      422 {object} map[string]map[string][]string "Validation errors"
// @Failure      500 {object} httputil.Envelope
// @Router       /v1/category [post]
func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	req, ok := decodeRequest(w, r, logger)
	if !ok {
		return
	}

	fieldErrs, err := h.validate(r.Context(), req, 0)
	if err != nil {
		logger.Error("failed to validate category", "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}
	if fieldErrs != nil {
		httputil.RespondValidationErrors(w, fieldErrs)
		return
	}

	cat, err := h.store.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		logger.Error("failed to create category", "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	logger.Info("category created", "category_id", cat.ID)

	httputil.RespondSuccess(w, "Category successfully created.", cat, http.StatusCreated)
}

// Update modifies a category
// @Summary      Update a category
// @Tags         category
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Category id"
// @Param        request body Request true "Category fields"
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope
// @Failure      422 {object} map[string]map[string][]string "Validation errors"
// @Failure      500 {object} httputil.Envelope
// @Router       /v1/category/{id} [put]
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

	fieldErrs, err := h.validate(r.Context(), req, id)
	if err != nil {
		logger.Error("failed to validate category", "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}
	if fieldErrs != nil {
		httputil.RespondValidationErrors(w, fieldErrs)
		return
	}

	cat, err := h.store.Update(r.Context(), id, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondFailure(w, "Category not found.", http.StatusNotFound)
			return
		}
		logger.Error("failed to update category", "category_id", id, "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	logger.Info("category updated", "category_id", cat.ID)

	httputil.RespondSuccess(w, "Category successfully updated.", cat, http.StatusOK)
}

// Destroy soft-deletes a category
// @Summary      Delete a category
// @Description  Soft-delete a category; its products are reassigned to the default category.
// @Tags         category
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Category id"
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope
// @Failure      500 {object} httputil.Envelope
// @Router       /v1/category/{id} [delete]
func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondFailure(w, "Category not found.", http.StatusNotFound)
			return
		}
		logger.Error("failed to delete category", "category_id", id, "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	logger.Info("category deleted", "category_id", id)

	httputil.RespondJSON(w, httputil.Envelope{
		Status:  true,
		Message: "Category successfully deleted.",
	}, http.StatusOK)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondFailure(w, "Category not found.", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request, logger *logging.Logger) (Request, bool) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid category request body", "error", err.Error())
		bag := validation.NewBag()
		bag.Add("body", "The request body must be valid JSON.")
		httputil.RespondValidationErrors(w, bag.Fields())
		return Request{}, false
	}
	return req, true
}
