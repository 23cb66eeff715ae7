package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"scooter/internal/domain"
	internalRedis "scooter/internal/redis"
)

// OrchestratorConfig tunes the periodic recompute driver.
type OrchestratorConfig struct {
	// Interval between full recompute passes.
	Interval time.Duration
	// ZoneTimeout bounds one zone's external calls; past it the zone tick
	// degrades to stale data instead of blocking the next pass.
	ZoneTimeout time.Duration
	// MaxConcurrent bounds how many zones recompute in parallel.
	MaxConcurrent int
}

// DefaultOrchestratorConfig returns the default driver configuration.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		Interval:      30 * time.Second,
		ZoneTimeout:   5 * time.Second,
		MaxConcurrent: 8,
	}
}

// Orchestrator periodically recomputes every active zone's multiplier. Each
// zone is an independent, unordered work unit: one zone's telemetry outage
// never blocks pricing for the others.
type Orchestrator struct {
	zones     *ZoneService
	rules     *RuleService
	events    *EventService
	engine    *RuleEngine
	overrides *OverrideManager
	weather   *WeatherService
	telemetry DemandTelemetry
	lockStore internalRedis.LockStoreInterface // optional, multi-instance tick fencing
	logger    *zap.Logger
	cfg       OrchestratorConfig
	now       func() time.Time
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	zones *ZoneService,
	rules *RuleService,
	events *EventService,
	engine *RuleEngine,
	overrides *OverrideManager,
	weather *WeatherService,
	telemetry DemandTelemetry,
	lockStore internalRedis.LockStoreInterface,
	logger *zap.Logger,
	cfg OrchestratorConfig,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultOrchestratorConfig().Interval
	}
	if cfg.ZoneTimeout <= 0 {
		cfg.ZoneTimeout = DefaultOrchestratorConfig().ZoneTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultOrchestratorConfig().MaxConcurrent
	}
	return &Orchestrator{
		zones:     zones,
		rules:     rules,
		events:    events,
		engine:    engine,
		overrides: overrides,
		weather:   weather,
		telemetry: telemetry,
		lockStore: lockStore,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// SetClock replaces the orchestrator's time source. Passes become
// deterministic with a fixed clock.
func (o *Orchestrator) SetClock(clock func() time.Time) {
	o.now = clock
}

// Run drives recompute passes until ctx is cancelled. Upstream failures are
// absorbed per zone; Run itself only returns on cancellation.
func (o *Orchestrator) Run(ctx context.Context) {
	ticker := time.NewTicker(o.cfg.Interval)
	defer ticker.Stop()

	o.logger.Info("pricing orchestrator started",
		zap.Duration("interval", o.cfg.Interval),
		zap.Int("max_concurrent", o.cfg.MaxConcurrent),
	)

	// Price immediately on startup instead of waiting a full interval.
	o.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("pricing orchestrator stopped")
			return
		case <-ticker.C:
			o.Tick(ctx)
		}
	}
}

// Tick runs one full recompute pass over all active zones.
func (o *Orchestrator) Tick(ctx context.Context) {
	now := o.now()

	if cleared := o.overrides.Sweep(now); cleared > 0 {
		o.logger.Info("swept expired overrides", zap.Int("cleared", cleared))
	}

	// One snapshot per pass: every zone in this tick evaluates against the
	// same rule and event state.
	rules, err := o.rules.Snapshot(ctx)
	if err != nil {
		o.logger.Error("failed to snapshot rules, skipping pass", zap.Error(err))
		return
	}
	events, err := o.events.ActiveAt(ctx, now)
	if err != nil {
		o.logger.Warn("failed to list active events, evaluating without them", zap.Error(err))
		events = nil
	}

	zones, err := o.zones.GetAll(ctx)
	if err != nil {
		o.logger.Error("failed to list zones, skipping pass", zap.Error(err))
		return
	}

	sem := make(chan struct{}, o.cfg.MaxConcurrent)
	var wg sync.WaitGroup

	for _, zone := range zones {
		if !zone.Active {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(zone *domain.Zone) {
			defer wg.Done()
			defer func() { <-sem }()

			zoneCtx, cancel := context.WithTimeout(ctx, o.cfg.ZoneTimeout)
			defer cancel()

			o.tickZone(zoneCtx, zone, now, rules, events)
		}(zone)
	}

	wg.Wait()
}

// tickZone recomputes one zone. Failures degrade and log; they never
// propagate.
func (o *Orchestrator) tickZone(
	ctx context.Context,
	zone *domain.Zone,
	now time.Time,
	rules []*domain.PricingRule,
	events []*domain.DemandEvent,
) {
	if o.lockStore != nil {
		locked, err := o.lockStore.AcquireZoneTick(ctx, zone.ID, o.cfg.Interval)
		if err != nil || !locked {
			// Another instance is pricing this zone.
			return
		}
		defer o.lockStore.ReleaseZoneTick(ctx, zone.ID)
	}

	weather, stale, err := o.weather.Current(ctx, zone.ID)
	if err != nil {
		o.logger.Warn("weather lookup failed", zap.String("zone_id", zone.ID), zap.Error(err))
		weather, stale = nil, true
	}
	if weather != nil && !ObservationUsable(weather, now) {
		weather = nil
	}

	activeRides, err := o.telemetry.ActiveRides(ctx, zone)
	if err != nil {
		activeRides = zone.ActiveRides // carry the last count forward
	}
	availableUnits, err := o.telemetry.AvailableUnits(ctx, zone)
	if err != nil {
		availableUnits = zone.AvailableUnits
	}

	demandRatio := DemandRatio(activeRides, availableUnits)

	var multiplier float64
	var source string

	if override := o.overrides.Current(zone.ID, now); override != nil {
		multiplier = override.Multiplier
		source = domain.SampleSourceOverride
	} else {
		result := o.engine.Evaluate(EvaluationInput{
			Zone:        zone,
			Now:         now,
			Weather:     weather,
			DemandRatio: demandRatio,
			Rules:       rules,
			Events:      events,
		})
		multiplier = result.Multiplier
		source = result.Source
		if stale {
			source = domain.SampleSourceStaleWeather
		}
	}

	updated, err := o.zones.ApplyPricing(ctx, zone.ID, PricingUpdate{
		Multiplier:     multiplier,
		Source:         source,
		DemandRatio:    demandRatio,
		ActiveRides:    activeRides,
		AvailableUnits: availableUnits,
		At:             now,
	})
	if err != nil {
		o.logger.Warn("failed to apply pricing",
			zap.String("zone_id", zone.ID),
			zap.Error(err),
		)
		return
	}

	o.logger.Debug("zone priced",
		zap.String("zone_id", updated.ID),
		zap.Float64("multiplier", updated.Multiplier),
		zap.Float64("price", updated.CurrentPrice),
		zap.String("source", source),
		zap.Float64("demand_ratio", demandRatio),
	)
}
