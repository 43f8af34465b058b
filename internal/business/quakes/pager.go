package quakes

import (
	"sync"

	"github.com/quakeboard/api/pkg/model"
)

// DefaultPageSize is the base size of the pagination window.
const DefaultPageSize = 12

// Pager exposes a growing prefix of a derived sequence. The visible count
// starts at one page, grows one page per LoadMore (capped at the sequence
// length) and returns to one page on Reset.
type Pager struct {
	pageSize int
	visible  int
	items    []model.Feature
}

// NewPager creates a Pager; non-positive sizes fall back to DefaultPageSize.
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{pageSize: pageSize, visible: pageSize}
}

// SetItems swaps in a freshly derived sequence. The visible count is left
// alone; callers changing derivation inputs must Reset first.
func (p *Pager) SetItems(items []model.Feature) {
	p.items = items
}

// Reset shrinks the window back to a single page.
func (p *Pager) Reset() {
	p.visible = p.pageSize
}

// LoadMore grows the window by one page. It is a no-op once the window covers
// the whole sequence and reports whether the window grew.
func (p *Pager) LoadMore() bool {
	if p.visible >= len(p.items) {
		return false
	}
	p.visible = min(p.visible+p.pageSize, len(p.items))
	return true
}

// HasMore reports whether items remain beyond the window.
func (p *Pager) HasMore() bool {
	return p.visible < len(p.items)
}

// VisibleCount is the current window size. It may exceed Len right after a
// Reset onto a short sequence; Visible is always capped.
func (p *Pager) VisibleCount() int {
	return p.visible
}

// Len is the length of the derived sequence.
func (p *Pager) Len() int {
	return len(p.items)
}

// Visible returns the window prefix of the derived sequence.
func (p *Pager) Visible() []model.Feature {
	n := min(p.visible, len(p.items))
	return p.items[:n:n]
}

// Attach makes the pager the subscriber of s: every sentinel signal becomes a
// LoadMore.
func (p *Pager) Attach(s *Sentinel) {
	s.Subscribe(func() { p.LoadMore() })
}

// Sentinel stands in for the element placed after the rendered list: it
// signals when that element becomes visible. It has at most one subscriber.
type Sentinel struct {
	mu      sync.Mutex
	onShown func()
	signals int
}

// NewSentinel returns a sentinel with no subscriber.
func NewSentinel() *Sentinel {
	return &Sentinel{}
}

// Subscribe installs fn as the sole subscriber, replacing any previous one.
func (s *Sentinel) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onShown = fn
}

// Signal reports that the sentinel became visible. Signals may arrive in
// bursts; each one is delivered synchronously to the subscriber.
func (s *Sentinel) Signal() {
	s.mu.Lock()
	fn := s.onShown
	s.signals++
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Signals returns how many signals were delivered so far.
func (s *Sentinel) Signals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signals
}
