package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
)

type seasonalEventRepository struct {
	db *DB
}

func NewSeasonalEventRepository(db *DB) repository.SeasonalEventRepository {
	return &seasonalEventRepository{db: db}
}

// seasonalEventRow mirrors the table; categories need pq.Array scanning.
type seasonalEventRow struct {
	domain.SeasonalEvent
	CategoryTags pq.StringArray `db:"categories"`
}

func (r *seasonalEventRepository) List(ctx context.Context) ([]domain.SeasonalEvent, error) {
	query := `
		SELECT id, name, start_date, end_date, uplift_factor, exclusive, categories
		FROM seasonal_events
		ORDER BY start_date, name
	`

	var rows []seasonalEventRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error listing seasonal events: %w", err)
	}

	events := make([]domain.SeasonalEvent, 0, len(rows))
	for _, row := range rows {
		ev := row.SeasonalEvent
		ev.Categories = []string(row.CategoryTags)
		events = append(events, ev)
	}
	return events, nil
}

// SeedDefaults inserts the given events only when the calendar is empty, so
// a fresh install starts with a usable calendar without clobbering edits.
func (r *seasonalEventRepository) SeedDefaults(ctx context.Context, events []domain.SeasonalEvent) (int, error) {
	inserted := 0
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM seasonal_events`).Scan(&count); err != nil {
			return fmt.Errorf("failed to count seasonal events: %w", err)
		}
		if count > 0 {
			return nil
		}

		query := `
			INSERT INTO seasonal_events (name, start_date, end_date, uplift_factor, exclusive, categories)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, ev := range events {
			if _, err := stmt.ExecContext(ctx,
				ev.Name, ev.StartDate, ev.EndDate, ev.UpliftFactor, ev.Exclusive,
				pq.Array(ev.Categories),
			); err != nil {
				return fmt.Errorf("failed to insert seasonal event %q: %w", ev.Name, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
