package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"scooter/internal/domain"
	"scooter/internal/repository"
)

// Analytics range tokens accepted by Summarize.
const (
	RangeDay   = "24h"
	RangeWeek  = "7d"
	RangeMonth = "30d"
)

// RangeDuration resolves a range token. Empty defaults to 24h.
func RangeDuration(token string) (time.Duration, error) {
	switch token {
	case "", RangeDay:
		return 24 * time.Hour, nil
	case RangeWeek:
		return 7 * 24 * time.Hour, nil
	case RangeMonth:
		return 30 * 24 * time.Hour, nil
	default:
		return 0, ErrInvalidRange
	}
}

// HourBucket aggregates samples sharing an hour-of-day.
type HourBucket struct {
	Hour          int     `json:"hour"`
	Revenue       float64 `json:"revenue"`
	AvgMultiplier float64 `json:"avg_multiplier"`
	SampleCount   int     `json:"sample_count"`
}

// WeekdayBucket aggregates samples sharing a day-of-week.
type WeekdayBucket struct {
	Weekday       string  `json:"weekday"`
	Revenue       float64 `json:"revenue"`
	AvgMultiplier float64 `json:"avg_multiplier"`
	SampleCount   int     `json:"sample_count"`
}

// HeatmapEntry is the latest demand/supply reading for one zone.
type HeatmapEntry struct {
	ZoneID      string             `json:"zone_id"`
	DemandRatio float64            `json:"demand_ratio"`
	DemandLevel domain.DemandLevel `json:"demand_level"`
	Multiplier  float64            `json:"multiplier"`
	Timestamp   time.Time          `json:"timestamp"`
}

// SourceBucket aggregates samples by what drove their price.
type SourceBucket struct {
	Source        string  `json:"source"`
	Revenue       float64 `json:"revenue"`
	AvgMultiplier float64 `json:"avg_multiplier"`
	SampleCount   int     `json:"sample_count"`
}

// Summary is the analytics snapshot derived from price sample history.
// It is recomputed from samples on demand and never hand-edited.
type Summary struct {
	Range         string          `json:"range"`
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	TotalRevenue  float64         `json:"total_revenue"`
	SurgeRevenue  float64         `json:"surge_revenue"`
	AvgMultiplier float64         `json:"avg_multiplier"`
	SampleCount   int             `json:"sample_count"`
	RevenueByHour []HourBucket    `json:"revenue_by_hour"`
	WeeklyTrends  []WeekdayBucket `json:"weekly_trends"`
	DemandHeatmap []HeatmapEntry  `json:"demand_heatmap"`
	WeatherImpact []SourceBucket  `json:"weather_impact"`
}

// SnapshotCache is the optional short-TTL cache in front of Summarize.
type SnapshotCache interface {
	Get(ctx context.Context, rangeToken string, dest any) (bool, error)
	Set(ctx context.Context, rangeToken string, summary any) error
}

// AnalyticsService rolls price samples into hourly, daily, and weekly
// aggregates. Pure aggregation over the sample log: idempotent, no side
// effects on zone state, safe to recompute any number of times.
type AnalyticsService struct {
	sampleRepo repository.SampleRepository
	cache      SnapshotCache
	logger     *zap.Logger
	now        func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(sampleRepo repository.SampleRepository, cache SnapshotCache, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		sampleRepo: sampleRepo,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
	}
}

// Summarize computes the snapshot for a range token.
func (s *AnalyticsService) Summarize(ctx context.Context, rangeToken string) (*Summary, error) {
	window, err := RangeDuration(rangeToken)
	if err != nil {
		return nil, err
	}
	if rangeToken == "" {
		rangeToken = RangeDay
	}

	if s.cache != nil {
		var cached Summary
		if hit, err := s.cache.Get(ctx, rangeToken, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	to := s.now()
	from := to.Add(-window)

	samples, err := s.sampleRepo.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := aggregate(samples, rangeToken, from, to)

	if s.cache != nil {
		if err := s.cache.Set(ctx, rangeToken, summary); err != nil {
			s.logger.Warn("failed to cache analytics snapshot", zap.Error(err))
		}
	}

	return summary, nil
}

func aggregate(samples []*domain.PriceSample, rangeToken string, from, to time.Time) *Summary {
	summary := &Summary{
		Range: rangeToken,
		From:  from,
		To:    to,
	}

	hours := make([]HourBucket, 24)
	for i := range hours {
		hours[i].Hour = i
	}
	weekdays := make([]WeekdayBucket, 7)
	for i := range weekdays {
		weekdays[i].Weekday = time.Weekday(i).String()
	}

	latestPerZone := make(map[string]*domain.PriceSample)
	sources := make(map[string]*SourceBucket)

	var multiplierSum float64
	hourMultiplier := make([]float64, 24)
	weekdayMultiplier := make([]float64, 7)

	for _, sample := range samples {
		summary.SampleCount++
		summary.TotalRevenue += sample.Price
		if sample.Surge() {
			summary.SurgeRevenue += sample.Price
		}
		multiplierSum += sample.Multiplier

		h := sample.Timestamp.Hour()
		hours[h].Revenue += sample.Price
		hours[h].SampleCount++
		hourMultiplier[h] += sample.Multiplier

		wd := int(sample.Timestamp.Weekday())
		weekdays[wd].Revenue += sample.Price
		weekdays[wd].SampleCount++
		weekdayMultiplier[wd] += sample.Multiplier

		// Samples arrive ordered by timestamp, so the last write wins.
		latestPerZone[sample.ZoneID] = sample

		key := sourceBucketKey(sample.Source)
		bucket, ok := sources[key]
		if !ok {
			bucket = &SourceBucket{Source: key}
			sources[key] = bucket
		}
		bucket.Revenue += sample.Price
		bucket.SampleCount++
		bucket.AvgMultiplier += sample.Multiplier // finalized below
	}

	if summary.SampleCount > 0 {
		summary.AvgMultiplier = multiplierSum / float64(summary.SampleCount)
	}
	for i := range hours {
		if hours[i].SampleCount > 0 {
			hours[i].AvgMultiplier = hourMultiplier[i] / float64(hours[i].SampleCount)
		}
	}
	for i := range weekdays {
		if weekdays[i].SampleCount > 0 {
			weekdays[i].AvgMultiplier = weekdayMultiplier[i] / float64(weekdays[i].SampleCount)
		}
	}
	summary.RevenueByHour = hours
	summary.WeeklyTrends = weekdays

	for _, sample := range latestPerZone {
		summary.DemandHeatmap = append(summary.DemandHeatmap, HeatmapEntry{
			ZoneID:      sample.ZoneID,
			DemandRatio: sample.DemandRatio,
			DemandLevel: sample.DemandLevel,
			Multiplier:  sample.Multiplier,
			Timestamp:   sample.Timestamp,
		})
	}
	sort.Slice(summary.DemandHeatmap, func(i, j int) bool {
		a, b := summary.DemandHeatmap[i], summary.DemandHeatmap[j]
		if a.DemandRatio != b.DemandRatio {
			return a.DemandRatio > b.DemandRatio
		}
		return a.ZoneID < b.ZoneID
	})

	for _, bucket := range sources {
		if bucket.SampleCount > 0 {
			bucket.AvgMultiplier /= float64(bucket.SampleCount)
		}
		summary.WeatherImpact = append(summary.WeatherImpact, *bucket)
	}
	sort.Slice(summary.WeatherImpact, func(i, j int) bool {
		return summary.WeatherImpact[i].Source < summary.WeatherImpact[j].Source
	})

	return summary
}

// sourceBucketKey folds individual rule IDs into one "rule" bucket while the
// reserved markers keep their own.
func sourceBucketKey(source string) string {
	switch source {
	case domain.SampleSourceBaseline, domain.SampleSourceOverride, domain.SampleSourceStaleWeather:
		return source
	default:
		return "rule"
	}
}
