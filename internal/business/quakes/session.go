package quakes

import (
	"sync"
	"time"

	"github.com/quakeboard/api/pkg/model"
)

// Session is the state of one open dashboard: its search query, filter
// spec, pagination window and sentinel. All mutations go through its
// methods; each input change resets the window before re-deriving.
type Session struct {
	ID        string
	CreatedAt time.Time

	store *FeedStore
	now   func() time.Time

	mu       sync.Mutex
	query    string
	spec     FilterSpec
	pager    *Pager
	sentinel *Sentinel
	lastSeen time.Time

	// derivation cache, valid while the store version and inputs are unchanged
	derivedVersion uint64
	derivedValid   bool
}

// View is what a dashboard renders for a session.
type View struct {
	SessionID     string          `json:"sessionId"`
	Status        Status          `json:"status"`
	Error         string          `json:"error,omitempty"`
	Query         string          `json:"query"`
	Filters       FilterParams    `json:"filters"`
	ActiveFilters []string        `json:"activeFilters"`
	TotalCount    int             `json:"totalCount"`
	FilteredCount int             `json:"filteredCount"`
	VisibleCount  int             `json:"visibleCount"`
	HasMore       bool            `json:"hasMore"`
	Items         []model.Feature `json:"items"`
}

func newSession(id string, store *FeedStore, pageSize int, now func() time.Time) *Session {
	pager := NewPager(pageSize)
	sentinel := NewSentinel()
	pager.Attach(sentinel)

	created := now()
	return &Session{
		ID:        id,
		CreatedAt: created,
		store:     store,
		now:       now,
		spec:      DefaultFilterSpec(),
		pager:     pager,
		sentinel:  sentinel,
		lastSeen:  created,
	}
}

// Query returns the current search text.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Filters returns the current filter spec.
func (s *Session) Filters() FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

// SetSearch replaces the search query.
func (s *Session) SetSearch(query string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.inputsChanged()
	return s.viewLocked()
}

// SetFilters replaces the filter spec.
func (s *Session) SetFilters(spec FilterSpec) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = spec
	s.inputsChanged()
	return s.viewLocked()
}

// ClearFilters restores the default filter spec. The search query is kept.
func (s *Session) ClearFilters() View {
	return s.SetFilters(DefaultFilterSpec())
}

// SignalSentinel reports that the end-of-list sentinel became visible.
func (s *Session) SignalSentinel() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	s.sentinel.Signal()
	return s.viewLocked()
}

// View renders the session against the current feed state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) lastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// inputsChanged must run with mu held.
func (s *Session) inputsChanged() {
	s.pager.Reset()
	s.derivedValid = false
}

// syncLocked re-derives when the feed moved or the inputs changed.
func (s *Session) syncLocked() Snapshot {
	snap := s.store.Snapshot()
	if s.derivedValid && s.derivedVersion == snap.Version {
		return snap
	}
	items := Renderable(snap.State).Items()
	s.pager.SetItems(DeriveAt(items, s.query, s.spec, s.now()))
	s.derivedVersion = snap.Version
	s.derivedValid = true
	return snap
}

func (s *Session) viewLocked() View {
	s.lastSeen = s.now()
	snap := s.syncLocked()

	view := View{
		SessionID:     s.ID,
		Status:        snap.State.Status(),
		Error:         ErrorMessage(snap.State),
		Query:         s.query,
		Filters:       s.spec.Params(),
		ActiveFilters: s.spec.ActiveFilters(),
		Items:         []model.Feature{},
	}
	if view.ActiveFilters == nil {
		view.ActiveFilters = []string{}
	}

	// A fetch in flight suppresses the list entirely.
	if _, loading := snap.State.(Loading); loading {
		return view
	}

	view.TotalCount = Renderable(snap.State).Len()
	view.FilteredCount = s.pager.Len()
	view.Items = s.pager.Visible()
	view.VisibleCount = len(view.Items)
	view.HasMore = s.pager.HasMore()
	return view
}
