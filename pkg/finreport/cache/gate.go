package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/finreport-go/pkg/finreport/models"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long an extraction result stays cached.
const DefaultTTL = 30 * time.Minute

// Mode selects how a cached entry is matched against a request.
type Mode int

const (
	// ModeLegacy reuses an entry when the mapping count matches. A request
	// with the same number of mappings but different names or rows is served
	// the stale entry.
	ModeLegacy Mode = iota
	// ModeStrict also requires the mapping fingerprint to match.
	ModeStrict
)

func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "legacy"
}

// ParseMode parses "legacy" or "strict".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy":
		return ModeLegacy, nil
	case "strict":
		return ModeStrict, nil
	default:
		return ModeLegacy, fmt.Errorf("invalid cache mode: %s (must be legacy or strict)", s)
	}
}

// Loader produces a fresh result on a cache miss.
type Loader func(ctx context.Context, worksheet, path string, mappings []models.FieldMapping) (*models.ResultSet, error)

// Observer is told about every lookup.
type Observer interface {
	ObserveCache(hit bool)
}

// Gate serves extraction results from a Store and calls its Loader on a miss.
type Gate struct {
	store    Store
	load     Loader
	ttl      time.Duration
	mode     Mode
	observer Observer

	group singleflight.Group
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithTTL sets the entry lifetime.
func WithTTL(ttl time.Duration) GateOption {
	return func(g *Gate) { g.ttl = ttl }
}

// WithMode sets the matching mode.
func WithMode(m Mode) GateOption {
	return func(g *Gate) { g.mode = m }
}

// WithObserver registers o for hit/miss notifications.
func WithObserver(o Observer) GateOption {
	return func(g *Gate) { g.observer = o }
}

// NewGate creates a Gate over store. The store is shared and owned by the caller.
func NewGate(store Store, load Loader, opts ...GateOption) *Gate {
	g := &Gate{
		store: store,
		load:  load,
		ttl:   DefaultTTL,
		mode:  ModeLegacy,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Mode returns the gate's matching mode.
func (g *Gate) Mode() Mode {
	return g.mode
}

// Get returns the cached result for (worksheet, path) when it was produced
// by a matching mapping set and has not expired, and otherwise loads, stores
// and returns a fresh one. Loader errors are returned as-is and nothing is
// cached.
//
// Concurrent misses for the same mappings share one load. The load runs
// detached from any single caller's cancellation; a caller whose ctx ends
// first returns ctx.Err() while the load continues for the others.
func (g *Gate) Get(ctx context.Context, worksheet, path string, mappings []models.FieldMapping) (*models.ResultSet, error) {
	key := Key(worksheet, path)
	shape := len(mappings)
	fp := Fingerprint(mappings)

	if e, ok := g.store.Get(key); ok && g.matches(e, shape, fp) {
		g.observe(true)
		return e.Result, nil
	}
	g.observe(false)

	loadCtx := context.WithoutCancel(ctx)
	flight := key + "\x00" + strconv.Itoa(shape) + "\x00" + strconv.FormatUint(fp, 16)
	ch := g.group.DoChan(flight, func() (interface{}, error) {
		rs, err := g.load(loadCtx, worksheet, path, mappings)
		if err != nil {
			return nil, err
		}
		g.store.Set(key, Entry{Result: rs, Shape: shape, Fingerprint: fp}, g.ttl)
		return rs, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.ResultSet), nil
	}
}

func (g *Gate) matches(e Entry, shape int, fp uint64) bool {
	if e.Result == nil || e.Shape != shape {
		return false
	}
	if g.mode == ModeStrict && e.Fingerprint != fp {
		return false
	}
	return true
}

func (g *Gate) observe(hit bool) {
	if g.observer != nil {
		g.observer.ObserveCache(hit)
	}
}
