package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/services"
	"github.com/Techspace-2020/gas-agency-system-backend/pkg/utils"
)

type CashHandler struct {
	Razorpay *services.RazorpayService
}

func NewCashHandler(razorpay *services.RazorpayService) *CashHandler {
	return &CashHandler{Razorpay: razorpay}
}

// CreatePaymentLink handles POST /api/v1/cash/payment-link
func (h *CashHandler) CreatePaymentLink(w http.ResponseWriter, r *http.Request) {
	if h.Razorpay == nil || !h.Razorpay.IsEnabled() {
		utils.ErrorMessage(w, http.StatusServiceUnavailable, "Online payments are not configured")
		return
	}

	var req models.PaymentLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Razorpay.CreatePaymentLink(r.Context(), req.AgentName)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, resp)
}
