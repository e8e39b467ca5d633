package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/paylock/pkg/middleware"
	"github.com/fkhayef/paylock/pkg/response"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handler serves the caller's payment reminder feed
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for notification endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/unread-count", h.UnreadCount)
	r.Post("/read-all", h.MarkAllAsRead)
	r.Post("/{notificationId}/read", h.MarkAsRead)

	return r
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotificationNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotRecipient):
		response.Forbidden(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

func queryInt(r *http.Request, name string, fallback, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 || (max > 0 && v > max) {
		return fallback
	}
	return v
}

// List handles GET /notifications
// @Summary      List notifications
// @Description  Newest first. unread=true hides notifications already read.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, from 1"
// @Param        perPage query int false "Page size, at most 100"
// @Param        unread query bool false "Only unread"
// @Success      200 {object} response.APIResponse{data=[]ItemResponse}
// @Router       /notifications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	page := queryInt(r, "page", 1, 0)
	perPage := queryInt(r, "perPage", defaultPageSize, maxPageSize)
	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

	items, total, err := h.service.ListByRecipientID(r.Context(), userID, page, perPage, unreadOnly)
	if err != nil {
		writeError(w, err, "Failed to list notifications")
		return
	}

	out := make([]*ItemResponse, len(items))
	for i, n := range items {
		out[i] = n.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, out, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// UnreadCount handles GET /notifications/unread-count
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=UnreadCountResponse}
// @Router       /notifications/unread-count [get]
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	count, err := h.service.GetUnreadCount(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to count unread notifications")
		return
	}

	response.JSON(w, http.StatusOK, &UnreadCountResponse{UnreadCount: count})
}

// MarkAsRead handles POST /notifications/{notificationId}/read
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        notificationId path int true "Notification ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /notifications/{notificationId}/read [post]
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "notificationId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid notification ID")
		return
	}

	if err := h.service.MarkAsRead(r.Context(), id, userID); err != nil {
		writeError(w, err, "Failed to mark notification as read")
		return
	}

	response.Message(w, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllAsRead handles POST /notifications/read-all
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse
// @Router       /notifications/read-all [post]
func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	if err := h.service.MarkAllAsRead(r.Context(), userID); err != nil {
		writeError(w, err, "Failed to mark notifications as read")
		return
	}

	response.Message(w, http.StatusOK, "All notifications marked as read", nil)
}
