package usecase

import (
	"context"
	"sort"
	"time"

	"smartstayz/internal/data/entity"
	"smartstayz/internal/data/repository"
	"smartstayz/internal/ical"
	"smartstayz/pkg/cache"
	"smartstayz/pkg/utils"

	"go.uber.org/zap"
)

const nextAvailableMaxDays = 365

type AvailabilityService interface {
	// BlockedDates returns the sorted blocked-date set for a property,
	// from cache when fresh. Degrades rather than fails: a feed or
	// store outage narrows the set, it never errors.
	BlockedDates(ctx context.Context, property entity.PropertyID) ([]string, error)

	// FreshBlockedDates bypasses the cache and recomputes. Unlike
	// BlockedDates it propagates store failures, so the booking path
	// can refuse to accept a reservation it cannot verify.
	FreshBlockedDates(ctx context.Context, property entity.PropertyID) ([]string, error)

	IsRangeAvailable(ctx context.Context, property entity.PropertyID, checkIn, checkOut time.Time) (bool, error)
	BlockedDatesInRange(ctx context.Context, property entity.PropertyID, start, end time.Time) ([]string, error)
	// NextAvailableDate scans forward from the given date, at most
	// maxDays steps (non-positive means the 365-day default).
	NextAvailableDate(ctx context.Context, property entity.PropertyID, from time.Time, maxDays int) (string, bool, error)

	InvalidateCache(ctx context.Context, property entity.PropertyID)
	// RefreshAll recomputes every property's blocked set, warming the
	// cache. Used by the hourly sync job.
	RefreshAll(ctx context.Context)
}

type availabilityService struct {
	repo     *repository.Repository
	cache    cache.Store
	fetcher  *ical.Fetcher
	parser   *ical.Parser
	feedURLs map[string]string
	log      *zap.Logger
	now      func() time.Time
}

func NewAvailabilityService(repo *repository.Repository, store cache.Store, fetcher *ical.Fetcher, parser *ical.Parser, feedURLs map[string]string, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:     repo,
		cache:    store,
		fetcher:  fetcher,
		parser:   parser,
		feedURLs: feedURLs,
		log:      log.With(zap.String("service", "availability")),
		now:      time.Now,
	}
}

func (s *availabilityService) BlockedDates(ctx context.Context, property entity.PropertyID) ([]string, error) {
	if entry, ok, err := s.cache.Get(ctx, string(property)); err != nil {
		s.log.Warn("Cache read failed, recomputing blocked dates",
			zap.Error(err),
			zap.String("property", string(property)),
		)
	} else if ok {
		return entry.BlockedDates, nil
	}

	dates := s.computeLenient(ctx, property)

	if err := s.cache.Put(ctx, string(property), dates); err != nil {
		s.log.Warn("Cache write failed",
			zap.Error(err),
			zap.String("property", string(property)),
		)
	}

	return dates, nil
}

func (s *availabilityService) FreshBlockedDates(ctx context.Context, property entity.PropertyID) ([]string, error) {
	upstream := s.upstreamDates(ctx, property)

	reservations, err := s.repo.Reservation.Blocking(ctx, property, utils.Today(s.now()))
	if err != nil {
		return nil, err
	}

	dates := mergeDates(upstream, reservationDates(reservations))

	if err := s.cache.Put(ctx, string(property), dates); err != nil {
		s.log.Warn("Cache write failed",
			zap.Error(err),
			zap.String("property", string(property)),
		)
	}

	return dates, nil
}

// computeLenient builds the blocked set tolerating every failure: a
// feed outage drops the upstream contribution, a store outage drops
// the reservation contribution. Read path only.
func (s *availabilityService) computeLenient(ctx context.Context, property entity.PropertyID) []string {
	upstream := s.upstreamDates(ctx, property)

	var local []string
	reservations, err := s.repo.Reservation.Blocking(ctx, property, utils.Today(s.now()))
	if err != nil {
		s.log.Warn("Reservation store unavailable, showing upstream-only availability",
			zap.Error(err),
			zap.String("property", string(property)),
		)
	} else {
		local = reservationDates(reservations)
	}

	return mergeDates(upstream, local)
}

// upstreamDates fetches and expands the property's iCal feed. Always
// fails open: any fetch problem yields an empty contribution.
func (s *availabilityService) upstreamDates(ctx context.Context, property entity.PropertyID) []string {
	url := s.feedURLs[string(property)]
	if url == "" {
		return nil
	}

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.log.Warn("Upstream feed fetch failed, continuing without it",
			zap.Error(err),
			zap.String("property", string(property)),
		)
		return nil
	}

	return ical.ExpandDates(s.parser.Parse(body))
}

// reservationDates expands blocking reservations into day lists. The
// checkout day is included: same-day turnovers are disallowed for
// direct bookings even though upstream feeds treat checkout as free.
func reservationDates(reservations []*entity.Reservation) []string {
	var dates []string
	for _, r := range reservations {
		for d := r.CheckIn; !d.After(r.CheckOut); d = d.AddDate(0, 0, 1) {
			dates = append(dates, utils.FormatDate(d))
		}
	}
	return dates
}

func mergeDates(sets ...[]string) []string {
	seen := make(map[string]bool)
	for _, set := range sets {
		for _, d := range set {
			seen[d] = true
		}
	}

	merged := make([]string, 0, len(seen))
	for d := range seen {
		merged = append(merged, d)
	}
	sort.Strings(merged)
	return merged
}

// IsRangeAvailable checks every night of the stay, [checkIn, checkOut)
// with checkout excluded, against the blocked set.
func (s *availabilityService) IsRangeAvailable(ctx context.Context, property entity.PropertyID, checkIn, checkOut time.Time) (bool, error) {
	blocked, err := s.BlockedDates(ctx, property)
	if err != nil {
		return false, err
	}

	set := toSet(blocked)
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		if set[utils.FormatDate(d)] {
			return false, nil
		}
	}
	return true, nil
}

func (s *availabilityService) BlockedDatesInRange(ctx context.Context, property entity.PropertyID, start, end time.Time) ([]string, error) {
	blocked, err := s.BlockedDates(ctx, property)
	if err != nil {
		return nil, err
	}

	set := toSet(blocked)
	var clashing []string
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if day := utils.FormatDate(d); set[day] {
			clashing = append(clashing, day)
		}
	}
	return clashing, nil
}

func (s *availabilityService) NextAvailableDate(ctx context.Context, property entity.PropertyID, from time.Time, maxDays int) (string, bool, error) {
	if maxDays <= 0 {
		maxDays = nextAvailableMaxDays
	}

	blocked, err := s.BlockedDates(ctx, property)
	if err != nil {
		return "", false, err
	}

	set := toSet(blocked)
	for i := 0; i < maxDays; i++ {
		day := utils.FormatDate(from.AddDate(0, 0, i))
		if !set[day] {
			return day, true, nil
		}
	}
	return "", false, nil
}

func (s *availabilityService) InvalidateCache(ctx context.Context, property entity.PropertyID) {
	if err := s.cache.Invalidate(ctx, string(property)); err != nil {
		s.log.Warn("Cache invalidation failed",
			zap.Error(err),
			zap.String("property", string(property)),
		)
	}
}

func (s *availabilityService) RefreshAll(ctx context.Context) {
	for _, p := range entity.AllProperties() {
		if _, err := s.FreshBlockedDates(ctx, p.ID); err != nil {
			s.log.Warn("Calendar refresh failed",
				zap.Error(err),
				zap.String("property", string(p.ID)),
			)
			continue
		}
		s.log.Info("Calendar refreshed", zap.String("property", string(p.ID)))
	}
}

func toSet(dates []string) map[string]bool {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d] = true
	}
	return set
}
