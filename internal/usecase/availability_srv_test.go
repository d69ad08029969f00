package usecase

import (
	"context"
	"testing"
	"time"

	"smartstayz/internal/data/entity"
	"smartstayz/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockedDatesCombinesFeedAndReservations(t *testing.T) {
	f := newFixture(icsFeed([2]string{"2026-03-20", "2026-03-22"}))
	defer f.close()
	ctx := context.Background()

	// confirmed reservation blocks check-in through checkout inclusive
	f.repo.add(entity.PropertyCedar, "2026-03-10", "2026-03-12", entity.StatusConfirmed)

	dates, err := f.availability.BlockedDates(ctx, entity.PropertyCedar)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2026-03-10", "2026-03-11", "2026-03-12", // reservation, checkout included
		"2026-03-20", "2026-03-21", // feed, end excluded
	}, dates)
}

func TestBlockedDatesIgnoresNonBlockingStatuses(t *testing.T) {
	f := newFixture("")
	defer f.close()
	ctx := context.Background()

	f.repo.add(entity.PropertyCedar, "2026-03-10", "2026-03-12", entity.StatusFailed)
	f.repo.add(entity.PropertyCedar, "2026-03-20", "2026-03-22", entity.StatusCanceled)
	f.repo.add(entity.PropertyCedar, "2026-04-01", "2026-04-03", entity.StatusPendingManual)

	dates, err := f.availability.BlockedDates(ctx, entity.PropertyCedar)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-04-01", "2026-04-02", "2026-04-03"}, dates)
}

func TestBlockedDatesFeedFailureFailsOpen(t *testing.T) {
	f := newFixture("FAIL")
	defer f.close()
	ctx := context.Background()

	f.repo.add(entity.PropertyCedar, "2026-03-10", "2026-03-12", entity.StatusConfirmed)

	dates, err := f.availability.BlockedDates(ctx, entity.PropertyCedar)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-10", "2026-03-11", "2026-03-12"}, dates)
}

func TestBlockedDatesStoreFailureFailsOpen(t *testing.T) {
	f := newFixture(icsFeed([2]string{"2026-03-20", "2026-03-22"}))
	defer f.close()
	ctx := context.Background()

	f.repo.storeDown = true

	dates, err := f.availability.BlockedDates(ctx, entity.PropertyCedar)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-20", "2026-03-21"}, dates)
}

func TestFreshBlockedDatesStoreFailurePropagates(t *testing.T) {
	f := newFixture("")
	defer f.close()

	f.repo.storeDown = true

	_, err := f.availability.FreshBlockedDates(context.Background(), entity.PropertyCedar)
	require.Error(t, err)
}

func TestBlockedDatesCachedWithinTTL(t *testing.T) {
	f := newFixture("")
	defer f.close()
	ctx := context.Background()

	f.repo.add(entity.PropertyCedar, "2026-03-10", "2026-03-12", entity.StatusConfirmed)

	first, err := f.availability.BlockedDates(ctx, entity.PropertyCedar)
	require.NoError(t, err)

	// A write that bypasses the guard does not show up until the TTL
	// lapses or the cache is invalidated.
	f.repo.add(entity.PropertyCedar, "2026-04-01", "2026-04-02", entity.StatusConfirmed)

	second, err := f.availability.BlockedDates(ctx, entity.PropertyCedar)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	f.availability.InvalidateCache(ctx, entity.PropertyCedar)

	third, err := f.availability.BlockedDates(ctx, entity.PropertyCedar)
	require.NoError(t, err)
	assert.Contains(t, third, "2026-04-01")
}

func TestIsRangeAvailableCheckoutExclusiveRequest(t *testing.T) {
	f := newFixture("")
	defer f.close()
	ctx := context.Background()

	f.repo.add(entity.PropertyStone, "2026-03-10", "2026-03-15", entity.StatusConfirmed)

	// Nights 15 and 16: the reservation's checkout day still blocks.
	ok, err := f.availability.IsRangeAvailable(ctx, entity.PropertyStone, day("2026-03-15"), day("2026-03-17"))
	require.NoError(t, err)
	assert.False(t, ok)

	// A stay ending the day the reservation begins is fine: the
	// request's own checkout day is not a night it occupies.
	ok, err = f.availability.IsRangeAvailable(ctx, entity.PropertyStone, day("2026-03-08"), day("2026-03-10"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsRangeAvailableUpstreamCheckoutFree(t *testing.T) {
	f := newFixture(icsFeed([2]string{"2026-03-10", "2026-03-15"}))
	defer f.close()
	ctx := context.Background()

	// Upstream block ends 03-15 exclusive, so a same-day check-in works.
	ok, err := f.availability.IsRangeAvailable(ctx, entity.PropertyStone, day("2026-03-15"), day("2026-03-17"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.availability.IsRangeAvailable(ctx, entity.PropertyStone, day("2026-03-14"), day("2026-03-16"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlockedDatesInRange(t *testing.T) {
	f := newFixture("")
	defer f.close()
	ctx := context.Background()

	f.repo.add(entity.PropertyCedar, "2026-03-10", "2026-03-15", entity.StatusConfirmed)

	clashing, err := f.availability.BlockedDatesInRange(ctx, entity.PropertyCedar, day("2026-03-12"), day("2026-03-18"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-12", "2026-03-13", "2026-03-14", "2026-03-15"}, clashing)
}

func TestNextAvailableDate(t *testing.T) {
	f := newFixture("")
	defer f.close()
	ctx := context.Background()

	f.repo.add(entity.PropertyCedar, "2026-03-10", "2026-03-12", entity.StatusConfirmed)

	next, found, err := f.availability.NextAvailableDate(ctx, entity.PropertyCedar, day("2026-03-10"), 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2026-03-13", next)

	// Cap shorter than the block: nothing found.
	_, found, err = f.availability.NextAvailableDate(ctx, entity.PropertyCedar, day("2026-03-10"), 2)
	require.NoError(t, err)
	assert.False(t, found)
}

func day(s string) time.Time {
	t, _ := utils.ParseDate(s)
	return t
}
