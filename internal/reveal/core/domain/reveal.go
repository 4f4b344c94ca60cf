package domain

import (
	"fmt"
	"sync"
	"time"
)

// Threshold is the visible fraction at which a group or loose item counts as
// having entered the viewport.
const Threshold = 0.12

const DefaultStaggerMs = 80

// MaxDelay bounds every animation delay and stagger.
const (
	MaxDelay   = time.Hour
	MaxDelayMs = int(MaxDelay / time.Millisecond)
)

// RevealClasses are the animation classes that make an element eligible.
var RevealClasses = []string{
	"animate-fade-in-up",
	"animate-fade-in",
	"animate-scale-in",
	"animate-slide-in-left",
	"animate-slide-in-right",
	"animate-glow-pulse",
	"animate-gradient-shift",
}

var revealClassSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(RevealClasses))
	for _, c := range RevealClasses {
		m[c] = struct{}{}
	}
	return m
}()

type State int

const (
	StatePending State = iota
	StateDelayed
	StatePlayed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDelayed:
		return "delayed"
	case StatePlayed:
		return "played"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Item is an element that may be revealed. Index, StaggerMs and DelayMs are
// the optional data-sr-index, data-sr-stagger and data-sr-delay overrides.
type Item struct {
	ID        string
	Classes   []string
	Marker    bool // data-sr
	Index     *int
	StaggerMs *int
	DelayMs   *int
	Top       float64 // vertical position, used to order loose items

	mu             sync.Mutex
	animationDelay string
	state          State
}

func NewItem(id string, classes ...string) *Item {
	return &Item{ID: id, Classes: classes}
}

// WithAnimationDelay presets the inline animation delay. A preset value is
// never overwritten.
func (it *Item) WithAnimationDelay(v string) *Item {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.animationDelay = v
	return it
}

// HasRevealClass reports whether any class is one of RevealClasses.
func (it *Item) HasRevealClass() bool {
	for _, c := range it.Classes {
		if _, ok := revealClassSet[c]; ok {
			return true
		}
	}
	return false
}

// Eligible reports whether the item belongs to a group cascade: a reveal
// class or the data-sr marker. Several classes still match once.
func (it *Item) Eligible() bool {
	return it.Marker || it.HasRevealClass()
}

func (it *Item) State() State {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.state
}

func (it *Item) AnimationDelay() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.animationDelay
}

// Schedule moves a pending item to delayed and sets the inline delay when
// none is set. It returns false when the item already left pending.
func (it *Item) Schedule(delay time.Duration) bool {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.state != StatePending {
		return false
	}
	if it.animationDelay == "" {
		it.animationDelay = FormatDelay(delay)
	}
	it.state = StateDelayed
	return true
}

// Play is the terminal transition. Only a delayed item can play.
func (it *Item) Play() bool {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.state != StateDelayed {
		return false
	}
	it.state = StatePlayed
	return true
}

// Group is a data-sr-group container. Items are in document order and may
// include elements that are not eligible.
type Group struct {
	ID        string
	StaggerMs *int
	Items     []*Item
}

type Document struct {
	Groups []*Group
	Loose  []*Item
}

// Contains reports whether it belongs to any group of the document.
func (d *Document) Contains(it *Item) bool {
	for _, g := range d.Groups {
		for _, child := range g.Items {
			if child == it {
				return true
			}
		}
	}
	return false
}

func FormatDelay(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

func Ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
