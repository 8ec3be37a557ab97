package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billgen-api/internal/application/service"
	"github.com/sangkips/billgen-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	now              func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, now: time.Now}
}

// GetStats handles getting dashboard statistics. ?date=YYYY-MM-DD picks the
// day used for daily revenue; it defaults to today.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	day := h.now().UTC()
	if d := service.ParseDate(c.Query("date")); d != nil {
		day = *d
	}

	stats, err := h.dashboardService.GetStats(c.Request.Context(), userID, day)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}
