package chat

import (
	"sync"
	"time"

	"aichat/internal/clock"
)

const (
	DefaultScrollThreshold = 100
	DefaultBatchSize       = 20
	DefaultPageCap         = 5
	DefaultFetchCooldown   = time.Second
)

// PaginatorConfig tunes one room view's backward pagination. Zero values
// fall back to the demo defaults.
type PaginatorConfig struct {
	ScrollThreshold int
	BatchSize       int
	PageCap         int
	FetchCooldown   time.Duration
}

func (c PaginatorConfig) withDefaults() PaginatorConfig {
	if c.ScrollThreshold <= 0 {
		c.ScrollThreshold = DefaultScrollThreshold
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.PageCap <= 0 {
		c.PageCap = DefaultPageCap
	}
	if c.FetchCooldown <= 0 {
		c.FetchCooldown = DefaultFetchCooldown
	}
	return c
}

// Paginator loads older history into the store as the viewport nears the
// top. It is a per-room-view state machine: hasMore starts true, page at 1,
// and each eligible scroll signal loads exactly one batch until the page
// cap ends the session.
type Paginator struct {
	mu       sync.Mutex
	roomID   string
	page     int
	hasMore  bool
	fetching bool

	store  *Store
	source HistorySource
	clock  clock.Clock
	cfg    PaginatorConfig
}

func NewPaginator(store *Store, source HistorySource, clk clock.Clock, roomID string, cfg PaginatorConfig) *Paginator {
	return &Paginator{
		roomID:  roomID,
		page:    1,
		hasMore: true,
		store:   store,
		source:  source,
		clock:   clk,
		cfg:     cfg.withDefaults(),
	}
}

// OnScroll feeds one scroll-position signal. It fires only when the offset
// is inside the threshold, more history is expected, and no fetch is in its
// cooldown window; every other signal is ignored, never queued. Returns
// true when a batch was loaded.
func (p *Paginator) OnScroll(offsetFromTop int) bool {
	p.mu.Lock()
	if offsetFromTop >= p.cfg.ScrollThreshold || !p.hasMore || p.fetching {
		p.mu.Unlock()
		return false
	}
	p.fetching = true
	// The cooldown is a debounce against continuous scroll, not a
	// completion signal: it re-arms the trigger on a fixed schedule.
	p.clock.AfterFunc(p.cfg.FetchCooldown, func() {
		p.mu.Lock()
		p.fetching = false
		p.mu.Unlock()
	})

	if p.page >= p.cfg.PageCap {
		p.hasMore = false
		p.mu.Unlock()
		return false
	}
	p.page++
	roomID, count := p.roomID, p.cfg.BatchSize
	p.mu.Unlock()

	batch := p.source.History(roomID, count)
	p.store.PrependMessages(roomID, batch)
	return true
}

func (p *Paginator) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *Paginator) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

func (p *Paginator) Fetching() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetching
}
