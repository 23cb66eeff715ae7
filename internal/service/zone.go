package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scooter/internal/domain"
	"scooter/internal/repository"
)

// ZoneDefinition is one bootstrap zone from configuration.
type ZoneDefinition struct {
	ID            string  `mapstructure:"id"`
	Name          string  `mapstructure:"name"`
	BasePrice     float64 `mapstructure:"base_price"`
	CenterLat     float64 `mapstructure:"center_lat"`
	CenterLng     float64 `mapstructure:"center_lng"`
	RadiusKm      float64 `mapstructure:"radius_km"`
	MaxMultiplier float64 `mapstructure:"max_multiplier"`
}

// ZoneService is the single mutation path for zone pricing state. Writes are
// serialized per zone key, so each zone has exactly one writer at a time and
// its price samples stay strictly timestamp-ordered. Cross-zone operations
// never take a global lock.
type ZoneService struct {
	zoneRepo   repository.ZoneRepository
	sampleRepo repository.SampleRepository
	logger     *zap.Logger

	mu    sync.Mutex // guards locks map only
	locks map[string]*sync.Mutex
}

// NewZoneService creates a new ZoneService.
func NewZoneService(
	zoneRepo repository.ZoneRepository,
	sampleRepo repository.SampleRepository,
	logger *zap.Logger,
) *ZoneService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZoneService{
		zoneRepo:   zoneRepo,
		sampleRepo: sampleRepo,
		logger:     logger,
		locks:      make(map[string]*sync.Mutex),
	}
}

// zoneLock returns the mutex for a zone, creating it on first use.
func (s *ZoneService) zoneLock(zoneID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[zoneID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[zoneID] = lock
	}
	return lock
}

// Bootstrap seeds the configured zones into the store. Zones that already
// exist are left untouched; zones are never deleted here or anywhere else.
// A store failure at this point is fatal to the caller: the engine must not
// run with undefined zone state.
func (s *ZoneService) Bootstrap(ctx context.Context, defs []ZoneDefinition, now time.Time) error {
	for _, def := range defs {
		if _, err := s.zoneRepo.GetByID(ctx, def.ID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		maxMultiplier := def.MaxMultiplier
		if maxMultiplier < 1.0 {
			maxMultiplier = 1.0
		}

		zone := &domain.Zone{
			ID:            def.ID,
			Name:          def.Name,
			BasePrice:     def.BasePrice,
			CenterLat:     def.CenterLat,
			CenterLng:     def.CenterLng,
			RadiusKm:      def.RadiusKm,
			Multiplier:    1.0,
			CurrentPrice:  def.BasePrice,
			DemandLevel:   domain.DemandLow,
			MaxMultiplier: maxMultiplier,
			Active:        true,
			CreatedAt:     now,
		}

		if err := s.zoneRepo.Create(ctx, zone); err != nil {
			return err
		}
		s.logger.Info("seeded pricing zone",
			zap.String("zone_id", zone.ID),
			zap.String("name", zone.Name),
		)
	}
	return nil
}

// GetAll retrieves all zones with their current pricing state.
func (s *ZoneService) GetAll(ctx context.Context) ([]*domain.Zone, error) {
	return s.zoneRepo.GetAll(ctx)
}

// Get retrieves one zone.
func (s *ZoneService) Get(ctx context.Context, zoneID string) (*domain.Zone, error) {
	zone, err := s.zoneRepo.GetByID(ctx, zoneID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	return zone, nil
}

// PricingUpdate carries one recomputation result into the store.
type PricingUpdate struct {
	Multiplier     float64
	Source         string
	DemandRatio    float64
	ActiveRides    int
	AvailableUnits int
	At             time.Time
}

// ApplyPricing recomputes a zone's multiplier, price, and demand level
// together under the zone's lock, persists them in one statement, and appends
// the corresponding price sample. The multiplier is clamped to the zone's
// allowed range; price always equals base price times the stored multiplier.
func (s *ZoneService) ApplyPricing(ctx context.Context, zoneID string, update PricingUpdate) (*domain.Zone, error) {
	lock := s.zoneLock(zoneID)
	lock.Lock()
	defer lock.Unlock()

	zone, err := s.zoneRepo.GetByID(ctx, zoneID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	if !zone.Active {
		return nil, ErrZoneInactive
	}

	zone.ActiveRides = update.ActiveRides
	zone.AvailableUnits = update.AvailableUnits
	zone.SetMultiplier(update.Multiplier, update.At)

	if err := s.zoneRepo.UpdatePricing(ctx, zone); err != nil {
		return nil, err
	}

	sample := &domain.PriceSample{
		ID:          uuid.New().String(),
		ZoneID:      zone.ID,
		Timestamp:   update.At,
		Multiplier:  zone.Multiplier,
		Price:       zone.CurrentPrice,
		DemandLevel: zone.DemandLevel,
		DemandRatio: update.DemandRatio,
		Source:      update.Source,
	}
	if err := s.sampleRepo.Append(ctx, sample); err != nil {
		// The zone row is already updated; a lost sample is an analytics gap,
		// not a pricing error.
		s.logger.Warn("failed to append price sample",
			zap.String("zone_id", zone.ID),
			zap.Error(err),
		)
	}

	return zone, nil
}

// SetActive flips a zone's operational flag. Inactive zones keep their state
// but are skipped by the orchestrator and rejected by ApplyPricing.
func (s *ZoneService) SetActive(ctx context.Context, zoneID string, active bool) error {
	err := s.zoneRepo.SetActive(ctx, zoneID, active)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrZoneNotFound
	}
	return err
}
