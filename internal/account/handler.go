package account

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/paylock/pkg/middleware"
	"github.com/fkhayef/paylock/pkg/request"
	"github.com/fkhayef/paylock/pkg/response"
)

// Handler handles HTTP requests for account operations
type Handler struct {
	service *Service
}

// NewHandler creates a new account handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for /auth endpoints. Registration and login are
// public; the rest sit behind requireAuth.
func (h *Handler) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/registro", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/registrar-dispositivo", h.RegisterDevice)
		r.Get("/payments", h.PaymentStatus)
	})

	return r
}

// Register handles POST /auth/registro
// @Summary      Register an account
// @Description  Create an owner or seller account and return a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration request"
// @Success      201 {object} response.APIResponse{data=AuthResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /auth/registro [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	a, token, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrPhoneTaken), errors.Is(err, ErrInvalidUsername):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to register account")
		}
		return
	}

	response.Message(w, http.StatusCreated, "Account registered", &AuthResponse{Token: token, User: a.ToResponse()})
}

// Login handles POST /auth/login
// @Summary      Log in
// @Description  Exchange username and password for a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} response.APIResponse{data=AuthResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	a, token, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to log in")
		return
	}

	response.Message(w, http.StatusOK, "Logged in", &AuthResponse{Token: token, User: a.ToResponse()})
}

// RegisterDevice handles POST /auth/registrar-dispositivo
// @Summary      Register device
// @Description  Bind the caller's physical device to the account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RegisterDeviceRequest true "Device"
// @Success      200 {object} response.APIResponse{data=AccountResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /auth/registrar-dispositivo [post]
func (h *Handler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req RegisterDeviceRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	a, err := h.service.RegisterDevice(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to register device")
		return
	}

	response.Message(w, http.StatusOK, "Device registered", a.ToResponse())
}

// PaymentStatus handles GET /auth/payments
// @Summary      Own payment status
// @Description  Days until the caller's next installment and the reminder that applies
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=PaymentStatusResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /auth/payments [get]
func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	status, err := h.service.PaymentStatus(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to check payments")
		return
	}

	if !status.HasDebt {
		response.Message(w, http.StatusOK, "No pending debt", &PaymentStatusResponse{HasDebt: false})
		return
	}

	days := status.DaysUntilPayment
	debt := status.Debt.ToResponse()
	response.JSON(w, http.StatusOK, &PaymentStatusResponse{
		HasDebt:          true,
		DaysUntilPayment: &days,
		NotificationType: status.NotificationType,
		ShouldNotify:     status.NotificationType != "",
		Debt:             &debt,
	})
}
