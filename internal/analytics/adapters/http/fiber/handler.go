package fiber

import (
	"context"
	"errors"
	"net/http"
	"time"

	"visitor-analytics-service/internal/analytics/core/domain"
	"visitor-analytics-service/internal/analytics/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type GetDashboardUseCase interface {
	Execute(ctx context.Context, in usecase.GetDashboardInput) (*domain.Dashboard, error)
}

type DashboardHandler struct {
	uc GetDashboardUseCase
}

func NewDashboardHandler(uc GetDashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetDashboard godoc
// @Summary Visitor analytics dashboard
// @Description Returns totals, rates and breakdowns for the selected period
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "Period: today | week | month" default(today)
// @Success 200 {object} DashboardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	in := usecase.GetDashboardInput{
		Period: c.Query("period", string(domain.PeriodToday)),
	}

	res, err := h.uc.Execute(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidPeriod):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_period",
				Message: err.Error(),
			})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	resp := DashboardResponse{
		Period:             string(res.Period),
		Since:              res.Since.UTC().Format(time.RFC3339),
		TotalVisitors:      res.TotalVisitors,
		UniqueVisitors:     res.UniqueVisitors,
		TotalPageViews:     res.TotalPageViews,
		BounceRate:         res.BounceRate,
		AvgSessionDuration: res.AvgSessionDuration,
		TopPages:           make([]PageStatResponse, 0, len(res.TopPages)),
		DeviceStats:        make([]DeviceStatResponse, 0, len(res.DeviceStats)),
		CountryStats:       make([]CountryStatResponse, 0, len(res.CountryStats)),
		BrowserStats:       make([]BrowserStatResponse, 0, len(res.BrowserStats)),
	}

	for _, p := range res.TopPages {
		resp.TopPages = append(resp.TopPages, PageStatResponse{Page: p.Key, Views: p.Count})
	}
	for _, d := range res.DeviceStats {
		resp.DeviceStats = append(resp.DeviceStats, DeviceStatResponse{Device: d.Key, Count: d.Count})
	}
	for _, cs := range res.CountryStats {
		resp.CountryStats = append(resp.CountryStats, CountryStatResponse{Country: cs.Key, Count: cs.Count})
	}
	for _, b := range res.BrowserStats {
		resp.BrowserStats = append(resp.BrowserStats, BrowserStatResponse{Browser: b.Key, Count: b.Count})
	}

	return c.Status(http.StatusOK).JSON(resp)
}
