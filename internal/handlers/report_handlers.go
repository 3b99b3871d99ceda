package handlers

import (
	"net/http"

	"farmmart/internal/common"
	"farmmart/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandlers serves the farmer sales read model.
type ReportHandlers struct {
	reportService services.ReportService
}

func NewReportHandlers(reportService services.ReportService) *ReportHandlers {
	return &ReportHandlers{reportService: reportService}
}

// SalesReport handles GET /farmers/me/sales-report (farmer only).
func (h *ReportHandlers) SalesReport(c echo.Context) error {
	ctx := c.Request().Context()
	farmerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	report, err := h.reportService.GetSalesReportForFarmer(ctx, farmerID)
	if err != nil {
		return common.SendServerError(c, "Failed to build sales report")
	}
	return c.JSON(http.StatusOK, report)
}
