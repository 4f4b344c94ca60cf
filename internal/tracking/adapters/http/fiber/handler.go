package fiber

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"visitor-analytics-service/internal/platform/auth"
	"visitor-analytics-service/internal/tracking/core/ports"
	"visitor-analytics-service/internal/tracking/core/usecase"

	"github.com/gofiber/fiber/v2"
)

const (
	maxSessionIDLength = 128
	defaultStartWait   = 3 * time.Second
)

type ViewService interface {
	Begin(ctx context.Context, identity ports.IdentityStorePort, meta usecase.EnsureSessionInput, firstPage, firstTitle string) usecase.OpenedView
	Navigate(viewID, path, title string) error
	Unload(viewID string) error
}

type DailyAnalyticsUseCase interface {
	UpdateDailyAnalytics(ctx context.Context) error
}

type TrackingHandler struct {
	views     ViewService
	daily     DailyAnalyticsUseCase
	startWait time.Duration
}

func NewTrackingHandler(views ViewService, daily DailyAnalyticsUseCase) *TrackingHandler {
	return &TrackingHandler{views: views, daily: daily, startWait: defaultStartWait}
}

// StartView godoc
// @Summary Start a page view
// @Description Resolves (or creates) the visitor session and opens a view. The returned session_id must be kept by the client.
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body StartViewRequest true "View start payload"
// @Success 201 {object} StartViewResponse
// @Failure 400 {object} ErrorResponse
// @Router /track/views [post]
func (h *TrackingHandler) StartView(c *fiber.Ctx) error {
	var req StartViewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if len(req.SessionID) > maxSessionIDLength {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_session_id",
			Message: "session_id is too long",
		})
	}

	meta := usecase.EnsureSessionInput{
		UserAgent:   c.Get(fiber.HeaderUserAgent),
		Referrer:    req.Referrer,
		LandingPage: req.LandingPage,
		Language:    firstNonEmpty(req.Language, primaryLanguage(c.Get(fiber.HeaderAcceptLanguage))),
		ClientIP:    clientIP(c),
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.startWait)
	defer cancel()

	opened := h.views.Begin(ctx, newRequestIdentity(strings.TrimSpace(req.SessionID)), meta, req.PagePath, req.PageTitle)

	return c.Status(http.StatusCreated).JSON(StartViewResponse{
		ViewID:    opened.ViewID,
		SessionID: opened.SessionID,
	})
}

// TrackPage godoc
// @Summary Record a page visit
// @Description Queues a page visit on the view. The previous page gets its time on page.
// @Tags Tracking
// @Accept json
// @Produce json
// @Param id path string true "View ID"
// @Param request body PageVisitRequest true "Page visit payload"
// @Success 202 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /track/views/{id}/pages [post]
func (h *TrackingHandler) TrackPage(c *fiber.Ctx) error {
	var req PageVisitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if err := h.views.Navigate(c.Params("id"), req.PagePath, req.PageTitle); err != nil {
		return viewError(c, err)
	}

	return c.Status(http.StatusAccepted).JSON(StatusResponse{Status: "queued"})
}

// UnloadView godoc
// @Summary Unload a page view
// @Description Finalizes the session duration and the time on page of the last visit. Accepts beacon requests without a body.
// @Tags Tracking
// @Produce json
// @Param id path string true "View ID"
// @Success 202 {object} StatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /track/views/{id}/unload [post]
func (h *TrackingHandler) UnloadView(c *fiber.Ctx) error {
	if err := h.views.Unload(c.Params("id")); err != nil {
		return viewError(c, err)
	}
	return c.Status(http.StatusAccepted).JSON(StatusResponse{Status: "finalizing"})
}

// RefreshDailyAnalytics godoc
// @Summary Recompute today's rollup
// @Description Invokes the daily analytics rollup procedure and echoes the token subject that requested it.
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatusResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/daily/refresh [post]
func (h *TrackingHandler) RefreshDailyAnalytics(c *fiber.Ctx) error {
	if err := h.daily.UpdateDailyAnalytics(c.UserContext()); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
	return c.Status(http.StatusOK).JSON(StatusResponse{
		Status:      "refreshed",
		RequestedBy: auth.Subject(c),
	})
}

func viewError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidPageVisit):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_page_visit",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrViewNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "view_not_found",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

// clientIP prefers the first X-Forwarded-For address.
func clientIP(c *fiber.Ctx) string {
	if ips := c.IPs(); len(ips) > 0 {
		return ips[0]
	}
	return c.IP()
}

// primaryLanguage returns the first tag of an Accept-Language header.
func primaryLanguage(header string) string {
	tag, _, _ := strings.Cut(header, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.TrimSpace(tag)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
