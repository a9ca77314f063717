// Package guard enforces per-user cooldown and session quota for crisis
// responses. All state is in-memory, bounded, and dies with the process.
// Admission is one critical section per call, so two near-simultaneous
// messages from the same user cannot both be admitted.
package guard

import (
	"sync"
	"time"

	"github.com/jonesrussell/companion-safety/internal/logger"
)

// Default limits.
const (
	defaultCooldownWindow  = 5 * time.Minute
	defaultSessionWindow   = time.Hour
	defaultMaxPerSession   = 3
	defaultMaxTrackedUsers = 5000
)

// Config holds guard limits.
type Config struct {
	// CooldownWindow is the minimum interval between full crisis
	// responses to the same user.
	CooldownWindow time.Duration
	// SessionWindow is the rolling period for the session quota.
	SessionWindow time.Duration
	// MaxPerSession caps crisis responses per user per session window.
	MaxPerSession int
	// MaxTrackedUsers bounds the cooldown map; oldest entries are
	// evicted first when the bound is exceeded.
	MaxTrackedUsers int
}

// Admission is the outcome of an admission check. Quota and cooldown
// states are first-class outcomes, not errors.
type Admission struct {
	// Allowed means a full fresh response may be composed.
	Allowed bool
	// CachedText is the previous response, set when the user is inside
	// the cooldown window.
	CachedText string
	// LimitReached means the session quota is exhausted.
	LimitReached bool
	// BypassConsumed means this admission spent the user's single
	// force-override bypass.
	BypassConsumed bool
}

// cooldownEntry tracks the last full response delivered to a user.
type cooldownEntry struct {
	lastResponseAt time.Time
	cachedText     string
}

// sessionQuota tracks crisis responses within the rolling window.
type sessionQuota struct {
	count         int
	windowResetAt time.Time
}

// Guard owns the cooldown map, session quota map, and force-bypass set.
type Guard struct {
	mu        sync.Mutex
	cooldowns map[string]*cooldownEntry
	sessions  map[string]*sessionQuota
	// bypassUsed marks users who consumed their single force-override
	// bypass during the current cooldown period. Re-armed whenever a
	// fresh full response is admitted.
	bypassUsed map[string]bool
	// order tracks cooldown insertion order for oldest-first eviction.
	order []string

	cfg Config
	now func() time.Time
	log logger.Logger
}

// New creates a guard with the given limits.
func New(log logger.Logger, cfg Config) *Guard {
	if cfg.CooldownWindow <= 0 {
		cfg.CooldownWindow = defaultCooldownWindow
	}
	if cfg.SessionWindow <= 0 {
		cfg.SessionWindow = defaultSessionWindow
	}
	if cfg.MaxPerSession <= 0 {
		cfg.MaxPerSession = defaultMaxPerSession
	}
	if cfg.MaxTrackedUsers <= 0 {
		cfg.MaxTrackedUsers = defaultMaxTrackedUsers
	}

	return &Guard{
		cooldowns:  make(map[string]*cooldownEntry),
		sessions:   make(map[string]*sessionQuota),
		bypassUsed: make(map[string]bool),
		cfg:        cfg,
		now:        time.Now,
		log:        log,
	}
}

// WithClock replaces the time source. Tests use this to control windows
// deterministically.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// Admit checks quota then cooldown for a hashed user id, in that order.
// An allowed admission reserves the cooldown slot and consumes quota
// immediately, so a concurrent duplicate sees the cooldown.
func (g *Guard) Admit(hashedID string, force bool) Admission {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()

	// 1. Session quota. Hitting the cap does not consume a cooldown slot.
	quota := g.sessions[hashedID]
	if quota != nil && now.Before(quota.windowResetAt) && quota.count >= g.cfg.MaxPerSession {
		return Admission{LimitReached: true}
	}

	// 2. Cooldown, with a single-use force bypass.
	bypassConsumed := false
	entry := g.cooldowns[hashedID]
	if entry != nil && now.Sub(entry.lastResponseAt) < g.cfg.CooldownWindow {
		if !force || g.bypassUsed[hashedID] {
			return Admission{CachedText: entry.cachedText}
		}
		g.bypassUsed[hashedID] = true
		bypassConsumed = true
	} else {
		// Fresh full response re-arms the bypass.
		delete(g.bypassUsed, hashedID)
	}

	// 3. Admit: reserve the cooldown slot and count against the quota.
	g.reserveLocked(hashedID, now)
	g.incrementQuotaLocked(hashedID, now)

	return Admission{Allowed: true, BypassConsumed: bypassConsumed}
}

// Record stores the composed response text for cooldown replay.
func (g *Guard) Record(hashedID, text string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if entry, ok := g.cooldowns[hashedID]; ok {
		entry.cachedText = text
		return
	}
	g.insertLocked(hashedID, &cooldownEntry{lastResponseAt: g.now(), cachedText: text})
}

// reserveLocked writes the cooldown timestamp at admission time.
func (g *Guard) reserveLocked(hashedID string, now time.Time) {
	if entry, ok := g.cooldowns[hashedID]; ok {
		entry.lastResponseAt = now
		return
	}
	g.insertLocked(hashedID, &cooldownEntry{lastResponseAt: now})
}

// insertLocked adds a cooldown entry and enforces the hard size bound by
// oldest-first eviction.
func (g *Guard) insertLocked(hashedID string, entry *cooldownEntry) {
	g.cooldowns[hashedID] = entry
	g.order = append(g.order, hashedID)

	for len(g.cooldowns) > g.cfg.MaxTrackedUsers && len(g.order) > 0 {
		oldest := g.order[0]
		g.order = g.order[1:]
		if _, ok := g.cooldowns[oldest]; ok && oldest != hashedID {
			delete(g.cooldowns, oldest)
			delete(g.bypassUsed, oldest)
		}
	}
}

// incrementQuotaLocked counts an admitted response, resetting the window
// when the current time has passed the reset mark.
func (g *Guard) incrementQuotaLocked(hashedID string, now time.Time) {
	quota := g.sessions[hashedID]
	if quota == nil || !now.Before(quota.windowResetAt) {
		g.sessions[hashedID] = &sessionQuota{
			count:         1,
			windowResetAt: now.Add(g.cfg.SessionWindow),
		}
		return
	}
	quota.count++
}

// Sweep removes cooldown entries older than twice the cooldown window and
// session entries past their reset time. Also run periodically via Run.
func (g *Guard) Sweep() (removed int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	staleBefore := now.Add(-2 * g.cfg.CooldownWindow)

	for id, entry := range g.cooldowns {
		if entry.lastResponseAt.Before(staleBefore) {
			delete(g.cooldowns, id)
			delete(g.bypassUsed, id)
			removed++
		}
	}

	for id, quota := range g.sessions {
		if !now.Before(quota.windowResetAt) {
			delete(g.sessions, id)
			removed++
		}
	}

	// Compact the order slice, dropping ids already evicted.
	if removed > 0 {
		kept := g.order[:0]
		for _, id := range g.order {
			if _, ok := g.cooldowns[id]; ok {
				kept = append(kept, id)
			}
		}
		g.order = kept
	}

	return removed
}

// Stats reports current map sizes for telemetry gauges.
func (g *Guard) Stats() (cooldowns, sessions int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cooldowns), len(g.sessions)
}
