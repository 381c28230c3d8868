package reviews

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shelfnotes/shelfnotes/internal/platform/httpx"
	"github.com/shelfnotes/shelfnotes/internal/shared"
	"github.com/shelfnotes/shelfnotes/internal/token"
)

// Handler wires the review API endpoints. Mutating handlers re-derive the
// caller identity from the session cookie themselves; the route guard is
// never trusted as the sole authorization boundary.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	codec     *token.Codec
	cookies   *shared.CookieManager
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, codec *token.Codec, cookies *shared.CookieManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		codec:     codec,
		cookies:   cookies,
		validator: validator.New(),
	}
}

// MountRoutes registers all review API routes. The router composes
// MountPublic and MountProtected separately so the session guard can gate
// only the mutating endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	h.MountPublic(r)
	h.MountProtected(r)
}

// MountPublic registers the unauthenticated read endpoints.
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/reviews", h.handleList)
}

// MountProtected registers the mutating endpoints.
func (h *Handler) MountProtected(r chi.Router) {
	r.Post("/reviews", h.handleCreate)
	r.Delete("/reviews/{id}", h.handleDelete)
}

type createRequest struct {
	BookTitle string `json:"bookTitle" validate:"required"`
	Review    string `json:"review" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Mood      string `json:"mood" validate:"required,oneof=alucinante relajante emotivo intelectual inspirador"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list reviews", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subject(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	review, err := h.service.Create(r.Context(), subject, req.BookTitle, req.Review, req.Rating, req.Mood)
	if err != nil {
		h.logger.Error("create review", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, review)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subject(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), id, subject); err != nil {
		if !errors.Is(err, httpx.ErrNotFound) && !errors.Is(err, httpx.ErrForbidden) {
			h.logger.Error("delete review", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, messageResponse{Message: "review deleted"})
}

// subject extracts and verifies the session token from the request cookie.
func (h *Handler) subject(r *http.Request) (int64, error) {
	value, ok := h.cookies.Get(r)
	if !ok {
		return 0, token.ErrInvalidToken
	}
	return h.codec.Verify(value)
}
