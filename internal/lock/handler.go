package lock

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/paylock/internal/account"
	"github.com/fkhayef/paylock/pkg/middleware"
	"github.com/fkhayef/paylock/pkg/request"
	"github.com/fkhayef/paylock/pkg/response"
)

// Handler handles HTTP requests for the lock API
type Handler struct {
	service *Service
}

// NewHandler creates a new lock handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for /lock endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/lock", h.Lock)
	r.Post("/unlock", h.Unlock)
	r.Get("/check", h.Check)
	r.Get("/status/{vendedorId}", h.Status)

	return r
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrNotSeller):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrNotLinked), errors.Is(err, ErrLockNotFound), errors.Is(err, account.ErrAccountNotFound):
		response.NotFound(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// Lock handles POST /lock/lock
// @Summary      Lock a seller's device
// @Description  Owner-only; requires an active link with the seller
// @Tags         lock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body LockRequest true "Target and message"
// @Success      200 {object} response.APIResponse{data=StatusResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /lock/lock [post]
func (h *Handler) Lock(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req LockRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	state, err := h.service.SetLock(r.Context(), userID, req.VendedorID, req.LockMessage)
	if err != nil {
		writeError(w, err, "Failed to lock device")
		return
	}

	response.Message(w, http.StatusOK, "Device locked", state.ToResponse())
}

// Unlock handles POST /lock/unlock
// @Summary      Unlock a seller's device
// @Tags         lock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UnlockRequest true "Target"
// @Success      200 {object} response.APIResponse{data=StatusResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /lock/unlock [post]
func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req UnlockRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	state, err := h.service.ClearLock(r.Context(), userID, req.VendedorID)
	if err != nil {
		writeError(w, err, "Failed to unlock device")
		return
	}

	response.Message(w, http.StatusOK, "Device unlocked", state.ToResponse())
}

// Check handles GET /lock/check
// @Summary      Check own lock state
// @Description  Polled by a seller's device; owners are never locked
// @Tags         lock
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=StatusResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /lock/check [get]
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	state, err := h.service.QueryOwnLockState(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to check lock state")
		return
	}

	response.JSON(w, http.StatusOK, ownResponse(state))
}

// Status handles GET /lock/status/{vendedorId}
// @Summary      Lock state of a seller
// @Description  Returns an unlocked default when the seller was never locked
// @Tags         lock
// @Produce      json
// @Security     BearerAuth
// @Param        vendedorId path int true "Seller account ID"
// @Success      200 {object} response.APIResponse{data=StatusResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /lock/status/{vendedorId} [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	sellerID, err := strconv.ParseInt(chi.URLParam(r, "vendedorId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid seller ID")
		return
	}

	state, err := h.service.QueryLockStateFor(r.Context(), userID, sellerID)
	if err != nil {
		writeError(w, err, "Failed to get lock state")
		return
	}

	response.JSON(w, http.StatusOK, state.ToResponse())
}
