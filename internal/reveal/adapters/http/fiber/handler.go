package fiber

import (
	"errors"
	"net/http"
	"time"

	"visitor-analytics-service/internal/reveal/core/domain"
	"visitor-analytics-service/internal/reveal/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type RevealHandler struct {
	defaultStagger time.Duration
}

func NewRevealHandler(defaultStagger time.Duration) *RevealHandler {
	return &RevealHandler{defaultStagger: defaultStagger}
}

// PlanReveal godoc
// @Summary Compute reveal delays
// @Description Returns the staggered animation delay of every eligible item, per group
// @Tags Reveal
// @Accept json
// @Produce json
// @Param request body PlanRequest true "Reveal groups"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} ErrorResponse
// @Router /reveal/plan [post]
func (h *RevealHandler) PlanReveal(c *fiber.Ctx) error {
	var req PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	stagger := h.defaultStagger
	if req.DefaultStaggerMs != nil {
		if *req.DefaultStaggerMs < 0 || *req.DefaultStaggerMs > domain.MaxDelayMs {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_reveal_document",
				Message: "default_stagger_ms must be between 0 and 3600000",
			})
		}
		stagger = domain.Ms(*req.DefaultStaggerMs)
	}

	doc, items := toDocument(req)

	plans, err := usecase.Plan(doc, stagger)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRevealDocument) {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_reveal_document",
				Message: err.Error(),
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	resp := PlanResponse{Groups: make([]PlanGroupResponse, 0, len(plans))}
	for _, p := range plans {
		g := PlanGroupResponse{ID: p.GroupID, Items: make([]PlanItemResponse, 0, len(p.Items))}
		for _, d := range p.Items {
			// a preset inline delay is reported as is
			inline := items[d.ItemID].AnimationDelay()
			if inline == "" {
				inline = domain.FormatDelay(d.Delay)
			}
			g.Items = append(g.Items, PlanItemResponse{
				ID:             d.ItemID,
				DelayMs:        d.Delay.Milliseconds(),
				AnimationDelay: inline,
			})
		}
		resp.Groups = append(resp.Groups, g)
	}

	return c.Status(http.StatusOK).JSON(resp)
}

func toDocument(req PlanRequest) (*domain.Document, map[string]*domain.Item) {
	doc := &domain.Document{Groups: make([]*domain.Group, 0, len(req.Groups))}
	items := make(map[string]*domain.Item)

	for _, rg := range req.Groups {
		g := &domain.Group{ID: rg.ID, StaggerMs: rg.StaggerMs}
		for _, ri := range rg.Items {
			it := domain.NewItem(ri.ID, ri.Classes...).WithAnimationDelay(ri.AnimationDelay)
			it.Marker = ri.Marker
			it.Index = ri.Index
			it.StaggerMs = ri.StaggerMs
			it.DelayMs = ri.DelayMs
			g.Items = append(g.Items, it)
			items[ri.ID] = it
		}
		doc.Groups = append(doc.Groups, g)
	}
	return doc, items
}
