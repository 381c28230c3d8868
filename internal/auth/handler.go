package auth

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shelfnotes/shelfnotes/internal/platform/httpx"
	"github.com/shelfnotes/shelfnotes/internal/rate"
	"github.com/shelfnotes/shelfnotes/internal/shared"
	"github.com/shelfnotes/shelfnotes/internal/token"
)

// Handler wires HTTP endpoints for signup, login and logout.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	codec     *token.Codec
	cookies   *shared.CookieManager
	limiter   *rate.LoginLimiter
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, codec *token.Codec, cookies *shared.CookieManager, limiter *rate.LoginLimiter) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		codec:     codec,
		cookies:   cookies,
		limiter:   limiter,
		validator: validator.New(),
	}
}

// MountRoutes registers the auth API routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	user, err := h.service.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, httpx.ErrDuplicate) {
			h.logger.Error("signup failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, userResponse{Message: "user created", User: user.Public()})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	ip := clientIP(r)
	if err := h.limiter.Check(r.Context(), req.Email, ip); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			httpx.RespondError(w, httpx.ErrRateLimited)
			return
		}
		// A limiter outage must not lock everyone out.
		h.logger.Warn("login limiter check", slog.Any("error", err))
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if recordErr := h.limiter.RecordFailure(r.Context(), req.Email, ip); recordErr != nil {
			h.logger.Warn("login limiter record", slog.Any("error", recordErr))
		}
		httpx.RespondError(w, httpx.ErrInvalidCredentials)
		return
	}

	if err := h.limiter.Reset(r.Context(), req.Email, ip); err != nil {
		h.logger.Warn("login limiter reset", slog.Any("error", err))
	}

	sessionToken, err := h.codec.Issue(user.ID)
	if err != nil {
		h.logger.Error("issue session token", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.cookies.Set(w, sessionToken)

	httpx.JSON(w, http.StatusOK, userResponse{Message: "login successful", User: user.Public()})
}

// HandleLogout clears the session cookie and sends the client back to the
// login page. Idempotent: succeeds whether or not a cookie was present.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
