package debt

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/paylock/internal/account"
	"github.com/fkhayef/paylock/internal/debt/schedule"
	"github.com/fkhayef/paylock/pkg/middleware"
	"github.com/fkhayef/paylock/pkg/request"
	"github.com/fkhayef/paylock/pkg/response"
)

// Handler handles HTTP requests for debt operations
type Handler struct {
	service *Service
}

// NewHandler creates a new debt handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted under /link/debt
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/configure", h.Configure)
	r.Post("/payment", h.RegisterPayment)
	r.Get("/{linkedUserId}", h.Get)

	return r
}

// PaymentRoutes returns the router mounted under /payments
func (h *Handler) PaymentRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/abono", h.RegisterPartialPayment)

	return r
}

var badRequestErrors = []error{
	ErrNotSeller,
	ErrInvalidAmount,
	ErrInvalidTotal,
	ErrInvalidInstallment,
	ErrNoDebt,
	ErrAmountExceedsDebt,
	schedule.ErrUnknownCadence,
	schedule.ErrNoPaymentDays,
	schedule.ErrWeekdayRange,
	schedule.ErrDayOfMonthRange,
	schedule.ErrFirstHalfOfMonth,
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			response.BadRequest(w, err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrNotLinked), errors.Is(err, ErrNoDebtConfig), errors.Is(err, account.ErrAccountNotFound):
		response.NotFound(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// Configure handles POST /link/debt/configure
// @Summary      Configure a seller's debt
// @Description  Attach an installment plan to the owner's link with a seller
// @Tags         debt
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ConfigureRequest true "Plan"
// @Success      200 {object} response.APIResponse{data=ConfigResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /link/debt/configure [post]
func (h *Handler) Configure(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req ConfigureRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	cfg, err := h.service.Configure(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "Failed to configure debt")
		return
	}

	response.Message(w, http.StatusOK, "Debt configuration saved", toConfigResponse(cfg))
}

// Get handles GET /link/debt/{linkedUserId}
// @Summary      Get a seller's debt configuration
// @Tags         debt
// @Produce      json
// @Security     BearerAuth
// @Param        linkedUserId path int true "Seller account ID"
// @Success      200 {object} response.APIResponse{data=ConfigResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /link/debt/{linkedUserId} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	sellerID, err := strconv.ParseInt(chi.URLParam(r, "linkedUserId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid linked user ID")
		return
	}

	cfg, err := h.service.Get(r.Context(), userID, sellerID)
	if err != nil {
		writeError(w, err, "Failed to get debt configuration")
		return
	}

	if cfg == nil {
		response.JSON(w, http.StatusOK, struct{}{})
		return
	}
	response.JSON(w, http.StatusOK, toConfigResponse(cfg))
}

// RegisterPayment handles POST /link/debt/payment
// @Summary      Register an installment payment
// @Tags         debt
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PaymentRequest true "Payment"
// @Success      200 {object} response.APIResponse{data=account.DebtResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /link/debt/payment [post]
func (h *Handler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req PaymentRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	snap, err := h.service.RegisterPayment(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "Failed to register payment")
		return
	}

	response.Message(w, http.StatusOK, "Payment registered", snap.ToResponse())
}

// RegisterPartialPayment handles POST /payments/abono
// @Summary      Register a partial payment
// @Description  Apply any amount up to the remaining debt
// @Tags         debt
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PartialPaymentRequest true "Payment"
// @Success      200 {object} response.APIResponse{data=account.DebtResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /payments/abono [post]
func (h *Handler) RegisterPartialPayment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req PartialPaymentRequest
	if err := request.Bind(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	snap, err := h.service.RegisterPartialPayment(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "Failed to register partial payment")
		return
	}

	response.Message(w, http.StatusOK, "Partial payment registered", snap.ToResponse())
}
