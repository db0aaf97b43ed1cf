package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// DefaultCalendar returns the stock seasonal calendar for a given year:
// the major marketplace sales events most sellers plan around. Sellers
// extend or replace these per category once the defaults are seeded.
func DefaultCalendar(year int) []domain.SeasonalEvent {
	date := func(month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
	return []domain.SeasonalEvent{
		{
			Name:         "Prime Day",
			StartDate:    date(time.July, 8),
			EndDate:      date(time.July, 11),
			UpliftFactor: 2.5,
			Exclusive:    true,
		},
		{
			Name:         "Back to School",
			StartDate:    date(time.August, 1),
			EndDate:      date(time.September, 7),
			UpliftFactor: 1.4,
		},
		{
			Name:         "Black Friday / Cyber Monday",
			StartDate:    date(time.November, 24),
			EndDate:      date(time.December, 1),
			UpliftFactor: 3.0,
			Exclusive:    true,
		},
		{
			Name:         "Holiday Season",
			StartDate:    date(time.December, 1),
			EndDate:      date(time.December, 23),
			UpliftFactor: 1.8,
		},
		{
			Name:         "Post-Holiday Slump",
			StartDate:    date(time.January, 2),
			EndDate:      date(time.January, 31),
			UpliftFactor: 0.7,
		},
	}
}

// SeedCalendar inserts the default events for the given year, skipping any
// that already exist by name. Returns the number inserted.
func (s *ForecastService) SeedCalendar(ctx context.Context, year int) (int, error) {
	if year == 0 {
		year = time.Now().UTC().Year()
	}
	inserted, err := s.events.SeedDefaults(ctx, DefaultCalendar(year))
	if err != nil {
		return 0, err
	}
	log.Info().Int("inserted", inserted).Int("year", year).Msg("seasonal calendar seeded")
	return inserted, nil
}
