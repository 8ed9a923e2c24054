package handlers

import (
	"net/http"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/services"
	"github.com/Techspace-2020/gas-agency-system-backend/pkg/utils"
)

type OfficeHandler struct {
	Office *services.OfficeService
}

func NewOfficeHandler(office *services.OfficeService) *OfficeHandler {
	return &OfficeHandler{Office: office}
}

// PendingStock handles GET /api/v1/office/pending-stock
func (h *OfficeHandler) PendingStock(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Office.PendingStock(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}
