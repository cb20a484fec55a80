package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/florinmsk/shop-api/internal/httputil"
	"github.com/florinmsk/shop-api/internal/logging"
	"github.com/florinmsk/shop-api/internal/ratelimit"
	"github.com/florinmsk/shop-api/internal/validation"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service     *Service
	rateLimiter *ratelimit.Limiter
	logger      *logging.Logger
}

func NewHandler(service *Service, rateLimiter *ratelimit.Limiter, logger *logging.Logger) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new user account and receive an access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterInput true "Registration fields"
// @Success      201 {object} httputil.Envelope
// @Failure      422 {object} map[string]map[string][]string "Validation errors"
// @Failure      500 {object} httputil.Envelope
// @Router       /v1/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := getClientIP(r)
	exceeded, err := h.rateLimiter.CheckIPRateLimit(r.Context(), ip, "register")
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
	} else if exceeded {
		logger.Warn("IP rate limit exceeded for register", "ip", ip)
		httputil.RespondJSON(w, httputil.ErrorResponse{Error: "Too many requests. Please try again later."}, http.StatusTooManyRequests)
		return
	}

	var req RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		bag := validation.NewBag()
		bag.Add("body", "The request body must be valid JSON.")
		httputil.RespondValidationErrors(w, bag.Fields())
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.rateLimiter.RecordIPRequest(r.Context(), ip, "register"); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	newUser, token, err := h.service.Register(r.Context(), req)
	if err != nil {
		var ve *validation.Error
		if errors.As(err, &ve) {
			logger.Warn("registration failed: validation error")
			httputil.RespondValidationErrors(w, ve.Fields)
			return
		}
		logger.Error("registration failed: internal error", "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)

	httputil.RespondJSON(w, httputil.Envelope{
		Status:      true,
		Message:     "User successfully created.",
		User:        newUser.Public(),
		AccessToken: token,
	}, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email and password and receive an access token. Earlier tokens stay valid.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      422 {object} map[string]map[string][]string "Validation errors"
// @Failure      500 {object} httputil.Envelope
// @Router       /v1/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := getClientIP(r)
	exceeded, err := h.rateLimiter.CheckIPRateLimit(r.Context(), ip, "login")
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
	} else if exceeded {
		logger.Warn("IP rate limit exceeded for login", "ip", ip)
		httputil.RespondJSON(w, httputil.ErrorResponse{Error: "Too many requests. Please try again later."}, http.StatusTooManyRequests)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		bag := validation.NewBag()
		bag.Add("body", "The request body must be valid JSON.")
		httputil.RespondValidationErrors(w, bag.Fields())
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.rateLimiter.RecordIPRequest(r.Context(), ip, "login"); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	loggedIn, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var ve *validation.Error
		if errors.As(err, &ve) {
			logger.Warn("login failed: validation error")
			httputil.RespondValidationErrors(w, ve.Fields)
			return
		}
		if errors.Is(err, ErrInvalidCredentials) {
			// One message for wrong password and unknown email alike.
			logger.Warn("login failed: invalid credentials")
			httputil.RespondUnauthorized(w, "Invalid credentials. Please check your email and password.")
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondServerError(w, "Server error: "+err.Error())
		return
	}

	logger.Info("user logged in successfully", "user_id", loggedIn.ID)

	httputil.RespondJSON(w, httputil.Envelope{
		Status:      true,
		Message:     "User successfully logged in.",
		User:        loggedIn,
		AccessToken: token,
	}, http.StatusOK)
}

// Logout handles single-device logout
// @Summary      Logout from the current device
// @Description  Revoke the token used for this request. Other sessions stay valid.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /v1/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	currentUser, ok := UserFromContext(r.Context())
	tokenID, tokenOK := TokenIDFromContext(r.Context())
	if !ok || !tokenOK {
		httputil.RespondUnauthorized(w, "User not authenticated.")
		return
	}

	if err := h.service.RevokeToken(r.Context(), tokenID); err != nil {
		logger.Error("logout failed", "user_id", currentUser.ID, "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	logger.Info("user logged out", "user_id", currentUser.ID)

	httputil.RespondJSON(w, httputil.Envelope{
		Status:  true,
		Message: "User successfully logged out from the current device.",
	}, http.StatusOK)
}

// LogoutAll handles logout from every device
// @Summary      Logout from all devices
// @Description  Revoke every token of the authenticated user, including the presenting one.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /v1/logout-all [post]
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	currentUser, ok := UserFromContext(r.Context())
	if !ok {
		httputil.RespondUnauthorized(w, "User not authenticated.")
		return
	}

	if err := h.service.RevokeAllTokens(r.Context(), currentUser.ID); err != nil {
		logger.Error("logout-all failed", "user_id", currentUser.ID, "error", err.Error())
		httputil.RespondServerError(w, "Database error: "+err.Error())
		return
	}

	logger.Info("user logged out from all devices", "user_id", currentUser.ID)

	httputil.RespondJSON(w, httputil.Envelope{
		Status:  true,
		Message: "User successfully logged out from all devices.",
	}, http.StatusOK)
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
