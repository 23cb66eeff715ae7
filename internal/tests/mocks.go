package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"scooter/internal/domain"
	"scooter/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ZONE REPOSITORY
// ──────────────────────────────────────────────

// MockZoneRepository is a mock implementation of ZoneRepository.
type MockZoneRepository struct {
	mu    sync.RWMutex
	zones map[string]*domain.Zone

	// Counters for verification
	CreateCallCount        int32
	UpdatePricingCallCount int32

	// Error injection
	CreateError        error
	GetByIDError       error
	UpdatePricingError error
}

// NewMockZoneRepository creates a new mock zone repository.
func NewMockZoneRepository() *MockZoneRepository {
	return &MockZoneRepository{
		zones: make(map[string]*domain.Zone),
	}
}

// AddZone adds a zone to the mock repository.
func (m *MockZoneRepository) AddZone(zone *domain.Zone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[zone.ID] = zone
}

func (m *MockZoneRepository) Create(ctx context.Context, zone *domain.Zone) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.zones[zone.ID]; ok {
		return repository.ErrDuplicate
	}
	m.zones[zone.ID] = zone
	return nil
}

func (m *MockZoneRepository) GetByID(ctx context.Context, id string) (*domain.Zone, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	zone, ok := m.zones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *zone
	return &copy, nil
}

func (m *MockZoneRepository) GetAll(ctx context.Context) ([]*domain.Zone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Zone, 0, len(m.zones))
	for _, z := range m.zones {
		copy := *z
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockZoneRepository) UpdatePricing(ctx context.Context, zone *domain.Zone) error {
	atomic.AddInt32(&m.UpdatePricingCallCount, 1)
	if m.UpdatePricingError != nil {
		return m.UpdatePricingError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.zones[zone.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Multiplier = zone.Multiplier
	stored.CurrentPrice = zone.CurrentPrice
	stored.DemandLevel = zone.DemandLevel
	stored.ActiveRides = zone.ActiveRides
	stored.AvailableUnits = zone.AvailableUnits
	stored.LastComputedAt = zone.LastComputedAt
	return nil
}

func (m *MockZoneRepository) SetActive(ctx context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	zone, ok := m.zones[id]
	if !ok {
		return repository.ErrNotFound
	}
	zone.Active = active
	return nil
}

// GetZone returns the stored zone by ID (for test assertions).
func (m *MockZoneRepository) GetZone(id string) *domain.Zone {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.zones[id]
}

// ──────────────────────────────────────────────
// MOCK RULE REPOSITORY
// ──────────────────────────────────────────────

// MockRuleRepository is a mock implementation of RuleRepository.
type MockRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]*domain.PricingRule

	// Counters
	CreateCallCount int32
	UpdateCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError error
	ListError   error
}

// NewMockRuleRepository creates a new mock rule repository.
func NewMockRuleRepository() *MockRuleRepository {
	return &MockRuleRepository{
		rules: make(map[string]*domain.PricingRule),
	}
}

// AddRule adds a rule to the mock repository.
func (m *MockRuleRepository) AddRule(rule *domain.PricingRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockRuleRepository) GetByID(ctx context.Context, id string) (*domain.PricingRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rule, ok := m.rules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *rule
	return &copy, nil
}

func (m *MockRuleRepository) List(ctx context.Context, filter repository.RuleFilter) ([]*domain.PricingRule, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.PricingRule, 0, len(m.rules))
	for _, r := range m.rules {
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		if filter.Active != nil && r.Active != *filter.Active {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockRuleRepository) Update(ctx context.Context, rule *domain.PricingRule) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[rule.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockRuleRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rules, id)
	return nil
}

// CountRules returns the number of stored rules.
func (m *MockRuleRepository) CountRules() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rules)
}

// ──────────────────────────────────────────────
// MOCK SAMPLE REPOSITORY
// ──────────────────────────────────────────────

// MockSampleRepository is a mock implementation of the append-only sample log.
type MockSampleRepository struct {
	mu      sync.RWMutex
	samples []*domain.PriceSample

	// Counters
	AppendCallCount int32

	// Error injection
	AppendError error
	ListError   error
}

// NewMockSampleRepository creates a new mock sample repository.
func NewMockSampleRepository() *MockSampleRepository {
	return &MockSampleRepository{
		samples: make([]*domain.PriceSample, 0),
	}
}

// AddSample appends a sample directly (for test setup).
func (m *MockSampleRepository) AddSample(sample *domain.PriceSample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, sample)
}

func (m *MockSampleRepository) Append(ctx context.Context, sample *domain.PriceSample) error {
	atomic.AddInt32(&m.AppendCallCount, 1)
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *sample
	m.samples = append(m.samples, &copy)
	return nil
}

func (m *MockSampleRepository) ListRange(ctx context.Context, from, to time.Time) ([]*domain.PriceSample, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.PriceSample, 0)
	for _, s := range m.samples {
		if !s.Timestamp.Before(from) && s.Timestamp.Before(to) {
			copy := *s
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp.Before(result[j].Timestamp) })
	return result, nil
}

func (m *MockSampleRepository) ListZoneRange(ctx context.Context, zoneID string, from, to time.Time) ([]*domain.PriceSample, error) {
	all, err := m.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.PriceSample, 0)
	for _, s := range all {
		if s.ZoneID == zoneID {
			result = append(result, s)
		}
	}
	return result, nil
}

// Samples returns all stored samples (for test assertions).
func (m *MockSampleRepository) Samples() []*domain.PriceSample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.PriceSample, len(m.samples))
	copy(result, m.samples)
	return result
}

// LastSample returns the most recently appended sample, or nil.
func (m *MockSampleRepository) LastSample() *domain.PriceSample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.samples) == 0 {
		return nil
	}
	return m.samples[len(m.samples)-1]
}

// LastSampleForZone returns the zone's most recently appended sample, or nil.
func (m *MockSampleRepository) LastSampleForZone(zoneID string) *domain.PriceSample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.samples) - 1; i >= 0; i-- {
		if m.samples[i].ZoneID == zoneID {
			return m.samples[i]
		}
	}
	return nil
}

// CountSamples returns the number of stored samples.
func (m *MockSampleRepository) CountSamples() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.samples)
}

// ──────────────────────────────────────────────
// MOCK EVENT REPOSITORY
// ──────────────────────────────────────────────

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.DemandEvent

	// Error injection
	ListActiveError error
}

// NewMockEventRepository creates a new mock event repository.
func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{
		events: make(map[string]*domain.DemandEvent),
	}
}

// AddEvent adds an event to the mock repository.
func (m *MockEventRepository) AddEvent(event *domain.DemandEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.DemandEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
	return nil
}

func (m *MockEventRepository) GetAll(ctx context.Context) ([]*domain.DemandEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.DemandEvent, 0, len(m.events))
	for _, e := range m.events {
		copy := *e
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartsAt.Before(result[j].StartsAt) })
	return result, nil
}

func (m *MockEventRepository) ListActive(ctx context.Context, at time.Time) ([]*domain.DemandEvent, error) {
	if m.ListActiveError != nil {
		return nil, m.ListActiveError
	}
	all, err := m.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.DemandEvent, 0)
	for _, e := range all {
		if e.InProgress(at) {
			result = append(result, e)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK UNIT STORE
// ──────────────────────────────────────────────

// MockUnitStore is a mock implementation of the unit geo index and ride gauge.
type MockUnitStore struct {
	mu     sync.RWMutex
	units  map[string][2]float64 // unitID -> lat,lng
	gauges map[string]int        // zoneID -> active rides

	// Fixed answer for CountUnitsNear; the mock does no real geo math.
	UnitsNear int

	// Counters
	UpdateLocationCallCount int32

	// Error injection
	CountUnitsNearError error
	GetActiveRidesError error
}

// NewMockUnitStore creates a new mock unit store.
func NewMockUnitStore() *MockUnitStore {
	return &MockUnitStore{
		units:  make(map[string][2]float64),
		gauges: make(map[string]int),
	}
}

func (m *MockUnitStore) UpdateUnitLocation(ctx context.Context, unitID string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateLocationCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units[unitID] = [2]float64{lat, lng}
	return nil
}

func (m *MockUnitStore) CountUnitsNear(ctx context.Context, lat, lng, radiusKm float64) (int, error) {
	if m.CountUnitsNearError != nil {
		return 0, m.CountUnitsNearError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.UnitsNear > 0 {
		return m.UnitsNear, nil
	}
	return len(m.units), nil
}

func (m *MockUnitStore) RemoveUnit(ctx context.Context, unitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.units, unitID)
	return nil
}

func (m *MockUnitStore) SetActiveRides(ctx context.Context, zoneID string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[zoneID] = count
	return nil
}

func (m *MockUnitStore) GetActiveRides(ctx context.Context, zoneID string) (int, error) {
	if m.GetActiveRidesError != nil {
		return 0, m.GetActiveRidesError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[zoneID], nil
}

// HasUnit checks whether a unit is indexed (for test assertions).
func (m *MockUnitStore) HasUnit(unitID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.units[unitID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK WEATHER CACHE
// ──────────────────────────────────────────────

// MockWeatherCache is a mock implementation of the last-known weather cache.
type MockWeatherCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.Weather

	// Counters
	SetCallCount int32

	// Error injection
	SetError error
	GetError error
}

// NewMockWeatherCache creates a new mock weather cache.
func NewMockWeatherCache() *MockWeatherCache {
	return &MockWeatherCache{
		entries: make(map[string]*domain.Weather),
	}
}

// Seed stores an observation directly (for test setup).
func (m *MockWeatherCache) Seed(w *domain.Weather) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[w.ZoneID] = w
}

func (m *MockWeatherCache) SetZoneWeather(ctx context.Context, w *domain.Weather) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *w
	m.entries[w.ZoneID] = &copy
	return nil
}

func (m *MockWeatherCache) GetZoneWeather(ctx context.Context, zoneID string) (*domain.Weather, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.entries[zoneID]
	if !ok {
		return nil, nil
	}
	copy := *w
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of the zone tick lock.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireZoneTick(ctx context.Context, zoneID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[zoneID]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[zoneID] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseZoneTick(ctx context.Context, zoneID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, zoneID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK WEATHER FEED
// ──────────────────────────────────────────────

// MockWeatherFeed is a scriptable weather feed.
type MockWeatherFeed struct {
	mu      sync.Mutex
	byZone  map[string]*domain.Weather
	FeedErr error

	// Counters
	FetchCallCount int32
}

// NewMockWeatherFeed creates a new mock weather feed.
func NewMockWeatherFeed() *MockWeatherFeed {
	return &MockWeatherFeed{
		byZone: make(map[string]*domain.Weather),
	}
}

// SetWeather scripts the observation returned for a zone.
func (m *MockWeatherFeed) SetWeather(w *domain.Weather) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byZone[w.ZoneID] = w
}

// SetError makes every fetch fail (simulates an upstream outage).
func (m *MockWeatherFeed) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedErr = err
}

func (m *MockWeatherFeed) ZoneWeather(ctx context.Context, zoneID string) (*domain.Weather, error) {
	atomic.AddInt32(&m.FetchCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FeedErr != nil {
		return nil, m.FeedErr
	}
	w, ok := m.byZone[zoneID]
	if !ok {
		return nil, ErrMockFeedMiss
	}
	copy := *w
	return &copy, nil
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
	ErrMockFeedMiss     = errors.New("mock: no observation for zone")
)
