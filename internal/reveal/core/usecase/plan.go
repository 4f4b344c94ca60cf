package usecase

import (
	"errors"
	"fmt"
	"time"

	"visitor-analytics-service/internal/reveal/core/domain"
)

var ErrInvalidRevealDocument = errors.New("invalid reveal document")

type ItemDelay struct {
	ItemID string
	Delay  time.Duration
}

type GroupPlan struct {
	GroupID string
	Items   []ItemDelay
}

// PlanGroup computes the cascade of one group. Eligible children are counted
// in document order; for child i the delay is
//
//	delayOverride ?? (index ?? i) * (itemStagger ?? groupStagger ?? defaultStagger)
//
// capped at domain.MaxDelay.
func PlanGroup(g *domain.Group, defaultStagger time.Duration) GroupPlan {
	plan := GroupPlan{GroupID: g.ID}

	i := 0
	for _, it := range g.Items {
		if !it.Eligible() {
			continue
		}

		delay, _ := itemDelay(g, it, i, defaultStagger)
		plan.Items = append(plan.Items, ItemDelay{ItemID: it.ID, Delay: delay})
		i++
	}
	return plan
}

// itemDelay reports false when the delay exceeds domain.MaxDelay, in which
// case the returned delay is capped.
func itemDelay(g *domain.Group, it *domain.Item, i int, defaultStagger time.Duration) (time.Duration, bool) {
	if it.DelayMs != nil {
		if *it.DelayMs > domain.MaxDelayMs {
			return domain.MaxDelay, false
		}
		return domain.Ms(*it.DelayMs), true
	}

	idx := i
	if it.Index != nil {
		idx = *it.Index
	}

	stagger := defaultStagger
	switch {
	case it.StaggerMs != nil:
		stagger = domain.Ms(min(*it.StaggerMs, domain.MaxDelayMs+1))
	case g.StaggerMs != nil:
		stagger = domain.Ms(min(*g.StaggerMs, domain.MaxDelayMs+1))
	}

	if stagger <= 0 || idx <= 0 {
		return 0, true
	}
	if stagger > domain.MaxDelay || time.Duration(idx) > domain.MaxDelay/stagger {
		return domain.MaxDelay, false
	}
	return time.Duration(idx) * stagger, true
}

// Plan computes the cascade of every group of the document.
func Plan(doc *domain.Document, defaultStagger time.Duration) ([]GroupPlan, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	if defaultStagger < 0 || defaultStagger > domain.MaxDelay {
		return nil, fmt.Errorf("%w: default stagger out of range", ErrInvalidRevealDocument)
	}
	for _, g := range doc.Groups {
		i := 0
		for _, it := range g.Items {
			if !it.Eligible() {
				continue
			}
			if _, ok := itemDelay(g, it, i, defaultStagger); !ok {
				return nil, fmt.Errorf("%w: delay of %q exceeds %s", ErrInvalidRevealDocument, it.ID, domain.MaxDelay)
			}
			i++
		}
	}

	plans := make([]GroupPlan, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		plans = append(plans, PlanGroup(g, defaultStagger))
	}
	return plans, nil
}

// Validate rejects documents whose delays cannot be computed: missing or
// duplicate ids, negative overrides and overrides above domain.MaxDelay.
func Validate(doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidRevealDocument)
	}

	seen := make(map[string]struct{})
	checkItem := func(it *domain.Item) error {
		if it == nil || it.ID == "" {
			return fmt.Errorf("%w: item without id", ErrInvalidRevealDocument)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidRevealDocument, it.ID)
		}
		seen[it.ID] = struct{}{}
		if negative(it.Index) || negative(it.StaggerMs) || negative(it.DelayMs) {
			return fmt.Errorf("%w: negative override on %q", ErrInvalidRevealDocument, it.ID)
		}
		if tooLong(it.StaggerMs) || tooLong(it.DelayMs) {
			return fmt.Errorf("%w: override on %q exceeds %s", ErrInvalidRevealDocument, it.ID, domain.MaxDelay)
		}
		return nil
	}

	for _, g := range doc.Groups {
		if g == nil || g.ID == "" {
			return fmt.Errorf("%w: group without id", ErrInvalidRevealDocument)
		}
		if _, dup := seen[g.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidRevealDocument, g.ID)
		}
		seen[g.ID] = struct{}{}
		if negative(g.StaggerMs) {
			return fmt.Errorf("%w: negative stagger on %q", ErrInvalidRevealDocument, g.ID)
		}
		if tooLong(g.StaggerMs) {
			return fmt.Errorf("%w: stagger on %q exceeds %s", ErrInvalidRevealDocument, g.ID, domain.MaxDelay)
		}
		for _, it := range g.Items {
			if err := checkItem(it); err != nil {
				return err
			}
		}
	}
	for _, it := range doc.Loose {
		if err := checkItem(it); err != nil {
			return err
		}
	}
	return nil
}

func negative(v *int) bool {
	return v != nil && *v < 0
}

func tooLong(v *int) bool {
	return v != nil && *v > domain.MaxDelayMs
}
