package progression

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// ProgressSnapshot is the normalized remote progress payload. ClaimedTiers
// holds tier levels; the engine maps them to reward IDs through the ladder.
type ProgressSnapshot struct {
	CurrentXP    int
	CurrentTier  int
	ClaimedTiers []int
	SeasonEndsAt time.Time
}

// MissionCatalog is the normalized remote mission payload. Seasonal missions
// are never remote-sourced and stay client-seeded.
type MissionCatalog struct {
	Daily  []Mission
	Weekly []Mission
}

// Fetcher is the remote CRM contract consumed during hydration.
type Fetcher interface {
	Progress(ctx context.Context) (*ProgressSnapshot, error)
	Missions(ctx context.Context) (*MissionCatalog, error)
	Leaderboard(ctx context.Context, limit int) ([]Entry, error)
}

// Engine is the composition root: it owns the durable aggregate, merges
// remote snapshots over the local cache, applies mutation intents, and
// re-persists after every state transition. Views read snapshots and
// dispatch intents; they never hold a reference into engine state.
type Engine struct {
	store CacheStore
	tiers []Tier

	mu          sync.Mutex
	state       *State
	missions    []Mission
	leaderboard []Entry
	seasonEnd   time.Time
	dailyMark   time.Time // window start of the last daily rotation
	weeklyMark  time.Time // window start of the last weekly rotation
	closed      bool
	hydrated    bool
	degraded    bool

	onNotify NotifyFunc
}

// NewEngine creates an engine over the given cache store and tier ladder.
// The cache is read synchronously so the caller has usable state before any
// network activity; a missing or malformed cache falls back to seeded
// defaults and is never fatal.
func NewEngine(store CacheStore, tiers []Tier) (*Engine, error) {
	if err := ValidateLadder(tiers); err != nil {
		return nil, fmt.Errorf("tier ladder: %w", err)
	}

	e := &Engine{
		store:    store,
		tiers:    tiers,
		state:    NewState(),
		missions: SeedMissions(),
	}

	cached, err := store.Load()
	if err != nil {
		// Treated as a cache miss: discard, use defaults, keep going.
		log.Printf("Discarding unreadable progress cache: %v", err)
	}
	if cached != nil {
		if cached.State != nil {
			e.state = cached.State
		}
		if len(cached.Missions) > 0 {
			e.missions = cached.Missions
		}
		e.leaderboard = cached.Leaderboard
		e.seasonEnd = cached.SeasonEndsAt
		e.dailyMark = cached.DailyResetAt
		e.weeklyMark = cached.WeeklyResetAt
	}

	// The cached level may predate a ladder change; the derived value wins.
	e.state.CurrentLevel = ResolveLevel(e.state.CurrentXP, e.tiers)
	e.rotateLocked(time.Now())
	return e, nil
}

// OnNotify registers the notification callback. Must be called before
// Hydrate or Run.
func (e *Engine) OnNotify(fn NotifyFunc) {
	e.onNotify = fn
}

// Hydrate fetches the three remote snapshots concurrently and merges each
// over local state as it lands. The fetches are independent: completion
// order does not matter, and a failed fetch only skips that collaborator's
// contribution. Hydrate blocks until all three settle, then persists.
// It runs once per session; repeat calls are no-ops.
func (e *Engine) Hydrate(ctx context.Context, f Fetcher, leaderboardLimit int) {
	e.mu.Lock()
	if e.hydrated || e.closed {
		e.mu.Unlock()
		return
	}
	e.hydrated = true
	e.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		snap, err := f.Progress(ctx)
		if err != nil {
			e.noteFetchFailure("progress", err)
			return
		}
		e.applyProgressSnapshot(snap)
	}()
	go func() {
		defer wg.Done()
		cat, err := f.Missions(ctx)
		if err != nil {
			e.noteFetchFailure("missions", err)
			return
		}
		e.applyMissionCatalog(cat)
	}()
	go func() {
		defer wg.Done()
		entries, err := f.Leaderboard(ctx, leaderboardLimit)
		if err != nil {
			e.noteFetchFailure("leaderboard", err)
			return
		}
		e.applyLeaderboard(entries)
	}()

	wg.Wait()
	e.persist()
}

// Hydrated reports whether a hydration pass has run this session.
func (e *Engine) Hydrated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hydrated
}

// Degraded reports whether any hydration fetch failed this session, i.e.
// some fields are still serving cached or seeded values.
func (e *Engine) Degraded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.degraded
}

func (e *Engine) noteFetchFailure(what string, err error) {
	log.Printf("Hydration fetch %s failed, keeping local data: %v", what, err)
	e.mu.Lock()
	e.degraded = true
	e.mu.Unlock()
}

// applyProgressSnapshot overrides the progression fields with the remote
// truth. A snapshot that decoded cleanly is applied even when all-zero (a
// brand-new account legitimately has 0 XP); only transport or decode
// failures fall back to cached values.
func (e *Engine) applyProgressSnapshot(snap *ProgressSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || snap == nil {
		return
	}

	e.state.CurrentXP = snap.CurrentXP
	e.state.CurrentLevel = ResolveLevel(e.state.CurrentXP, e.tiers)

	claimed := make(map[string]time.Time, len(snap.ClaimedTiers))
	now := time.Now().UTC()
	for _, level := range snap.ClaimedTiers {
		for _, t := range e.tiers {
			if t.Level == level && t.Reward.ID != "" {
				if at, ok := e.state.ClaimedRewards[t.Reward.ID]; ok {
					claimed[t.Reward.ID] = at
				} else {
					claimed[t.Reward.ID] = now
				}
			}
		}
	}
	e.state.ClaimedRewards = claimed

	if !snap.SeasonEndsAt.IsZero() {
		e.seasonEnd = snap.SeasonEndsAt
	}
}

// applyMissionCatalog replaces the daily and weekly mission lists wholesale
// when the remote list is non-empty; an empty or missing list keeps the
// prior (cached or seeded) missions.
func (e *Engine) applyMissionCatalog(cat *MissionCatalog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || cat == nil {
		return
	}
	if len(cat.Daily) > 0 {
		e.missions = ReplaceMissions(e.missions, CadenceDaily, cat.Daily)
	}
	if len(cat.Weekly) > 0 {
		e.missions = ReplaceMissions(e.missions, CadenceWeekly, cat.Weekly)
	}
}

// applyLeaderboard replaces the leaderboard wholesale when non-empty.
func (e *Engine) applyLeaderboard(entries []Entry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || len(entries) == 0 {
		return
	}
	e.leaderboard = Rank(entries)
}

// ApplyXP grants XP and advances the tier level. Crossing several thresholds
// in one call collapses into a single tier-unlocked notification for the
// highest level reached. Zero and negative gains are no-ops.
func (e *Engine) ApplyXP(gain int, reason string) {
	e.mu.Lock()
	note, ok := e.applyXPLocked(gain)
	e.mu.Unlock()

	if ok {
		e.notify(note)
	}
	if gain > 0 {
		e.persist()
	}
}

// applyXPLocked mutates XP and level under the lock and reports whether a
// tier-unlocked notification should fire. CurrentXP is monotonic
// non-decreasing, so negative gains clamp to zero.
func (e *Engine) applyXPLocked(gain int) (Notification, bool) {
	if gain <= 0 {
		return Notification{}, false
	}
	e.state.CurrentXP += gain
	next := ResolveLevel(e.state.CurrentXP, e.tiers)
	if next <= e.state.CurrentLevel {
		return Notification{}, false
	}
	e.state.CurrentLevel = next

	note := newNotification(NoteTierUnlocked)
	note.Level = next
	return note, true
}

// AdvanceMission increments a mission's progress. A step <= 0 requests the
// default increment. The returned status reflects the post-advance state.
func (e *Engine) AdvanceMission(id string, step int) (Status, error) {
	e.mu.Lock()
	e.rotateLocked(time.Now())
	m := e.missionLocked(id)
	if m == nil {
		e.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrUnknownMission, id)
	}
	m.Advance(step)
	status := m.Status(e.state.completedSet())
	e.mu.Unlock()

	e.persist()
	return status, nil
}

// ClaimMission converts a completed mission into recorded XP. It fails with
// ErrNotEligible when the mission is not complete or was already claimed,
// mutating nothing. On success it appends to the completed ledger, grants
// the mission's XP through the ladder, and emits a mission-complete
// notification (plus a tier-unlocked one when the grant crosses a
// threshold).
func (e *Engine) ClaimMission(id string) error {
	e.mu.Lock()
	e.rotateLocked(time.Now())
	m := e.missionLocked(id)
	if m == nil {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownMission, id)
	}
	if err := e.state.claimMission(m, time.Now()); err != nil {
		e.mu.Unlock()
		return err
	}

	note := newNotification(NoteMissionComplete)
	note.MissionID = m.ID
	note.MissionTitle = m.Title
	note.XPGranted = m.XPReward

	tierNote, tierUp := e.applyXPLocked(m.XPReward)
	e.mu.Unlock()

	e.notify(note)
	if tierUp {
		e.notify(tierNote)
	}
	e.persist()
	return nil
}

// ClaimReward claims a tier reward. The claim ledger guarantees idempotency;
// on top of it the engine enforces that the reward's tier has actually been
// reached, so a reward is never claimable early regardless of what the UI
// renders.
func (e *Engine) ClaimReward(rewardID string) (Reward, error) {
	e.mu.Lock()
	tier, ok := TierForReward(rewardID, e.tiers)
	if !ok {
		e.mu.Unlock()
		return Reward{}, fmt.Errorf("%w: %s", ErrUnknownReward, rewardID)
	}
	if e.state.CurrentLevel < tier.Level {
		e.mu.Unlock()
		return Reward{}, fmt.Errorf("%w: reward %s requires level %d, at %d",
			ErrNotEligible, rewardID, tier.Level, e.state.CurrentLevel)
	}
	if err := e.state.claimReward(rewardID, time.Now()); err != nil {
		e.mu.Unlock()
		return Reward{}, err
	}

	note := newNotification(NoteRewardClaimed)
	note.RewardName = tier.Reward.Name
	e.mu.Unlock()

	e.notify(note)
	e.persist()
	return tier.Reward, nil
}

// Run consumes action events until ctx is cancelled, then performs a final
// save. Events with a mission ID advance that mission; events carrying XP
// grant it. Unknown mission IDs are logged and skipped.
func (e *Engine) Run(ctx context.Context, events <-chan ActionEvent) {
	for {
		select {
		case <-ctx.Done():
			e.Close()
			return
		case ev, ok := <-events:
			if !ok {
				e.Close()
				return
			}
			if ev.MissionID != "" {
				if _, err := e.AdvanceMission(ev.MissionID, ev.Steps); err != nil {
					log.Printf("Advance %s failed: %v", ev.MissionID, err)
				}
			}
			if ev.XP > 0 {
				e.ApplyXP(ev.XP, ev.Type)
			}
		}
	}
}

// Close marks the engine dead and performs a final persist. Fetches that
// resolve after Close discard their results instead of writing to dead
// state.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()
	e.persist()
}

// State returns a deep copy of the durable aggregate.
func (e *Engine) State() *State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// MissionView pairs a mission with its derived display status.
type MissionView struct {
	Mission
	Status Status `json:"status"`
}

// Missions returns display-ready copies of the mission list.
func (e *Engine) Missions() []MissionView {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rotateLocked(time.Now())
	claimed := e.state.completedSet()
	out := make([]MissionView, len(e.missions))
	for i, m := range e.missions {
		out[i] = MissionView{Mission: m, Status: m.Status(claimed)}
	}
	return out
}

// Leaderboard returns a copy of the current ranked entries.
func (e *Engine) Leaderboard() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Entry, len(e.leaderboard))
	copy(out, e.leaderboard)
	return out
}

// SeedSeasonEnd sets the season end when nothing cached or fetched has
// supplied one yet. Later remote values still win.
func (e *Engine) SeedSeasonEnd(t time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.seasonEnd.IsZero() {
		e.seasonEnd = t
	}
}

// SeasonEndsAt returns the season end instant (zero when unknown).
func (e *Engine) SeasonEndsAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seasonEnd
}

// TimeRemaining renders the countdown to the given cadence's reset.
func (e *Engine) TimeRemaining(cadence Cadence) string {
	e.mu.Lock()
	end := e.seasonEnd
	e.mu.Unlock()
	return TimeRemaining(cadence, time.Now(), end)
}

// missionLocked returns a pointer into the mission list, or nil. Callers
// hold the lock.
func (e *Engine) missionLocked(id string) *Mission {
	for i := range e.missions {
		if e.missions[i].ID == id {
			return &e.missions[i]
		}
	}
	return nil
}

// notify fires the callback outside the lock to avoid holding it during
// whatever the view layer does with the event.
func (e *Engine) notify(n Notification) {
	if e.onNotify != nil {
		e.onNotify(n)
	}
}

// persist writes the full aggregate through to the cache store. Writes are
// best-effort: a failed save is logged and the in-memory state stands.
func (e *Engine) persist() {
	e.mu.Lock()
	c := &Cache{
		State:         e.state.clone(),
		Missions:      append([]Mission(nil), e.missions...),
		Leaderboard:   append([]Entry(nil), e.leaderboard...),
		SeasonEndsAt:  e.seasonEnd,
		DailyResetAt:  e.dailyMark,
		WeeklyResetAt: e.weeklyMark,
	}
	e.mu.Unlock()

	if err := e.store.Save(c); err != nil {
		log.Printf("Failed to save progress cache: %v", err)
	}
}
