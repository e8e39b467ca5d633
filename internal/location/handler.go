package location

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/paylock/internal/account"
	"github.com/fkhayef/paylock/pkg/middleware"
	"github.com/fkhayef/paylock/pkg/request"
	"github.com/fkhayef/paylock/pkg/response"
)

// Handler handles HTTP requests for location operations
type Handler struct {
	service *Service
}

// NewHandler creates a new location handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted under /link/location
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/update", h.Update)
	r.Get("/linked", h.Linked)
	r.Get("/blocked", h.Blocked)

	return r
}

func (h *Handler) writeEntries(w http.ResponseWriter, entries []*Entry) {
	now := time.Now()
	out := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = toEntryResponse(e, now)
	}
	response.JSON(w, http.StatusOK, out)
}

// Update handles POST /link/location/update
// @Summary      Report location
// @Description  Overwrite the caller's latest position; it expires after the retention window
// @Tags         location
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateRequest true "Position"
// @Success      200 {object} response.APIResponse{data=Sample}
// @Failure      400 {object} response.APIResponse
// @Router       /link/location/update [post]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req UpdateRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	sample, err := h.service.Update(r.Context(), userID, &req)
	if err != nil {
		response.InternalError(w, "Failed to update location")
		return
	}

	response.Message(w, http.StatusOK, "Location updated", sample)
}

// Linked handles GET /link/location/linked
// @Summary      Linked accounts' locations
// @Tags         location
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]EntryResponse}
// @Router       /link/location/linked [get]
func (h *Handler) Linked(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	entries, err := h.service.ListLinked(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list locations")
		return
	}
	h.writeEntries(w, entries)
}

// Blocked handles GET /link/location/blocked
// @Summary      Locked sellers' locations
// @Description  Owner-only; sellers the caller currently holds locked
// @Tags         location
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]EntryResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /link/location/blocked [get]
func (h *Handler) Blocked(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	entries, err := h.service.ListBlocked(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, err.Error())
		case errors.Is(err, account.ErrAccountNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to list locked sellers")
		}
		return
	}
	h.writeEntries(w, entries)
}
