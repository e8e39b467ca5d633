package contact

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/paylock/pkg/middleware"
	"github.com/fkhayef/paylock/pkg/request"
	"github.com/fkhayef/paylock/pkg/response"
)

// Handler handles HTTP requests for emergency contacts
type Handler struct {
	service *Service
}

// NewHandler creates a new contact handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted under /contacts
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/emergency", h.Toggle)
	r.Get("/emergency", h.List)
	r.Get("/emergency/count", h.Count)
	r.Get("/emergency/phone/{phoneNumber}", h.FindByPhone)
	r.Delete("/emergency/{contactId}", h.Remove)

	return r
}

// Toggle handles POST /contacts/emergency
// @Summary      Mark or unmark an emergency contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ToggleRequest true "Contact"
// @Success      201 {object} response.APIResponse{data=Contact}
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Router       /contacts/emergency [post]
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req ToggleRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	c, err := h.service.Toggle(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrInvalidPhone) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update emergency contact")
		return
	}

	if c == nil {
		response.Message(w, http.StatusOK, "Contact removed from emergencies", nil)
		return
	}
	response.Message(w, http.StatusCreated, "Contact marked as emergency", c)
}

// List handles GET /contacts/emergency
// @Summary      List emergency contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]Contact}
// @Router       /contacts/emergency [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	contacts, err := h.service.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list emergency contacts")
		return
	}
	response.JSON(w, http.StatusOK, contacts)
}

// Count handles GET /contacts/emergency/count
// @Summary      Count emergency contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=CountResponse}
// @Router       /contacts/emergency/count [get]
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	count, err := h.service.Count(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to count emergency contacts")
		return
	}
	response.JSON(w, http.StatusOK, &CountResponse{Count: count})
}

// FindByPhone handles GET /contacts/emergency/phone/{phoneNumber}
// @Summary      Find an emergency contact by phone
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        phoneNumber path string true "Phone number in any format"
// @Success      200 {object} response.APIResponse{data=Contact}
// @Failure      404 {object} response.APIResponse
// @Router       /contacts/emergency/phone/{phoneNumber} [get]
func (h *Handler) FindByPhone(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	c, err := h.service.FindByPhone(r.Context(), userID, chi.URLParam(r, "phoneNumber"))
	if err != nil {
		if errors.Is(err, ErrContactNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to find emergency contact")
		return
	}
	response.JSON(w, http.StatusOK, c)
}

// Remove handles DELETE /contacts/emergency/{contactId}
// @Summary      Remove an emergency contact
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        contactId path int true "Contact ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /contacts/emergency/{contactId} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "contactId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid contact ID")
		return
	}

	if err := h.service.Remove(r.Context(), userID, id); err != nil {
		if errors.Is(err, ErrContactNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to remove emergency contact")
		return
	}
	response.Message(w, http.StatusOK, "Contact removed from emergencies", nil)
}
