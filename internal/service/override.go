package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"scooter/internal/domain"
)

// OverrideManager holds manual surge overrides, at most one per zone. An
// unexpired override takes full precedence over rule evaluation for its zone;
// it is never combined with rule output. Expiry is lazy: an override past its
// TTL is treated as absent and garbage-collected on the next read. The
// orchestrator additionally calls Sweep each tick to bound memory.
type OverrideManager struct {
	mu        sync.RWMutex
	overrides map[string]*domain.ManualOverride
	logger    *zap.Logger
}

// NewOverrideManager creates a new OverrideManager.
func NewOverrideManager(logger *zap.Logger) *OverrideManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverrideManager{
		overrides: make(map[string]*domain.ManualOverride),
		logger:    logger,
	}
}

// SetOverrideRequest contains the parameters for issuing an override.
type SetOverrideRequest struct {
	ZoneID     string
	Multiplier float64
	Duration   time.Duration
	IssuedBy   string
	Reason     string
}

// Set validates and installs an override, atomically replacing any prior
// override for the zone. Racing writers resolve last-write-wins; replacing an
// unexpired override is surfaced as a warning log only, never as an error.
func (m *OverrideManager) Set(req SetOverrideRequest, now time.Time) (*domain.ManualOverride, error) {
	if req.Multiplier < 1.0 {
		return nil, ErrInvalidOverrideMultiplier
	}
	if req.Duration <= 0 {
		return nil, ErrInvalidOverrideDuration
	}

	override := &domain.ManualOverride{
		ZoneID:     req.ZoneID,
		Multiplier: req.Multiplier,
		Reason:     req.Reason,
		IssuedBy:   req.IssuedBy,
		IssuedAt:   now,
		Duration:   req.Duration,
		ExpiresAt:  now.Add(req.Duration),
	}

	m.mu.Lock()
	prior, hadPrior := m.overrides[req.ZoneID]
	m.overrides[req.ZoneID] = override
	m.mu.Unlock()

	if hadPrior && !prior.Expired(now) {
		m.logger.Warn("replacing unexpired override",
			zap.String("zone_id", req.ZoneID),
			zap.Float64("prior_multiplier", prior.Multiplier),
			zap.Float64("new_multiplier", req.Multiplier),
			zap.Time("prior_expiry", prior.ExpiresAt),
		)
	}

	return override, nil
}

// Clear removes the override for a zone immediately. Returns
// ErrNoActiveOverride when the zone has none (or only an expired one).
func (m *OverrideManager) Clear(zoneID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	override, ok := m.overrides[zoneID]
	if !ok {
		return ErrNoActiveOverride
	}
	delete(m.overrides, zoneID)

	if override.Expired(now) {
		return ErrNoActiveOverride
	}
	return nil
}

// Current returns the zone's override if one is active at now, or nil.
// Expired entries are garbage-collected on the way out.
func (m *OverrideManager) Current(zoneID string, now time.Time) *domain.ManualOverride {
	m.mu.RLock()
	override, ok := m.overrides[zoneID]
	m.mu.RUnlock()

	if !ok {
		return nil
	}

	if override.Expired(now) {
		m.mu.Lock()
		// Re-check under the write lock: a newer override may have landed.
		if cur, ok := m.overrides[zoneID]; ok && cur.Expired(now) {
			delete(m.overrides, zoneID)
		}
		m.mu.Unlock()
		return nil
	}

	return override
}

// Sweep proactively removes expired overrides and returns how many were
// cleared.
func (m *OverrideManager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cleared := 0
	for zoneID, override := range m.overrides {
		if override.Expired(now) {
			delete(m.overrides, zoneID)
			cleared++
		}
	}
	return cleared
}

// ActiveCount returns the number of unexpired overrides.
func (m *OverrideManager) ActiveCount(now time.Time) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, override := range m.overrides {
		if !override.Expired(now) {
			count++
		}
	}
	return count
}
