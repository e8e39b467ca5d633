package link

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/paylock/internal/account"
	"github.com/fkhayef/paylock/pkg/middleware"
	"github.com/fkhayef/paylock/pkg/request"
	"github.com/fkhayef/paylock/pkg/response"
)

// Handler handles HTTP requests for pairing operations
type Handler struct {
	service *Service
}

// NewHandler creates a new link handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for /link endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/request", h.Request)
	r.Post("/respond", h.Respond)
	r.Get("/devices", h.Devices)
	r.Get("/pending", h.Pending)
	r.Post("/unlink", h.Unlink)

	return r
}

// Request handles POST /link/request
// @Summary      Send a pairing request
// @Description  Ask the account owning jcId to pair with the caller
// @Tags         link
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RequestLinkRequest true "Pairing code"
// @Success      201 {object} response.APIResponse{data=RequestCreatedResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /link/request [post]
func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req RequestLinkRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	l, target, err := h.service.Request(r.Context(), userID, req.JCID)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrAccountNotFound):
			response.NotFound(w, "No account found with that jcId")
		case errors.Is(err, ErrSelfLink), errors.Is(err, ErrAlreadyLinked), errors.Is(err, ErrAlreadyPending):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to send link request")
		}
		return
	}

	response.Message(w, http.StatusCreated, "Link request sent", &RequestCreatedResponse{
		Link:       l.ToResponse(),
		TargetUser: ProfileOf(target),
	})
}

// Respond handles POST /link/respond
// @Summary      Answer a pairing request
// @Description  Accept or reject a pending request addressed to the caller
// @Tags         link
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RespondRequest true "Answer"
// @Success      200 {object} response.APIResponse{data=LinkResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /link/respond [post]
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req RespondRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	l, err := h.service.Respond(r.Context(), userID, req.LinkID, *req.Accept)
	if err != nil {
		switch {
		case errors.Is(err, ErrLinkNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotTarget):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrNotPending):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to respond to link request")
		}
		return
	}

	if !*req.Accept {
		response.Message(w, http.StatusOK, "Link request rejected", nil)
		return
	}
	response.Message(w, http.StatusOK, "Link request accepted", l.ToResponse())
}

// Devices handles GET /link/devices
// @Summary      List linked devices
// @Tags         link
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]LinkedDeviceResponse}
// @Router       /link/devices [get]
func (h *Handler) Devices(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	devices, err := h.service.ListDevices(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list linked devices")
		return
	}

	out := make([]*LinkedDeviceResponse, len(devices))
	for i, d := range devices {
		out[i] = d.toResponse()
	}
	response.JSON(w, http.StatusOK, out)
}

// Pending handles GET /link/pending
// @Summary      List pending requests
// @Tags         link
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]PendingRequestResponse}
// @Router       /link/pending [get]
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	pending, err := h.service.ListPending(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list pending requests")
		return
	}

	out := make([]*PendingRequestResponse, len(pending))
	for i, p := range pending {
		out[i] = p.toResponse()
	}
	response.JSON(w, http.StatusOK, out)
}

// Unlink handles POST /link/unlink
// @Summary      Unlink a device
// @Description  Delete the pairing with linkedUserId in both directions
// @Tags         link
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UnlinkRequest true "Counterpart"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Router       /link/unlink [post]
func (h *Handler) Unlink(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req UnlinkRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if _, err := h.service.Unlink(r.Context(), userID, req.LinkedUserID); err != nil {
		response.InternalError(w, "Failed to unlink device")
		return
	}

	response.Message(w, http.StatusOK, "Device unlinked", nil)
}
