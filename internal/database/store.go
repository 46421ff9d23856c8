package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/timestamp"
)

// sample is one stored event. A NULL value is a bad event.
type sample struct {
	t    time.Time
	v    float64
	good bool
}

func (s sample) raw() models.RawValue {
	rv := models.RawValue{Timestamp: timestamp.FromTime(s.t)}
	if s.good {
		rv.Value = s.v
	}
	return rv
}

func storedValue(v any) (sql.NullFloat64, error) {
	f, err := models.ToFloat(v)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	if math.IsNaN(f) {
		return sql.NullFloat64{}, nil
	}
	return sql.NullFloat64{Float64: f, Valid: true}, nil
}

func (r *PostgresRepo) querySamples(ctx context.Context, query string, args ...any) ([]sample, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sample
	for rows.Next() {
		var (
			s   sample
			val sql.NullFloat64
		)
		if err := rows.Scan(&s.t, &val); err != nil {
			return nil, err
		}
		s.v, s.good = val.Float64, val.Valid
		out = append(out, s)
	}
	return out, rows.Err()
}

// between returns the events in [from, to] in time order.
func (r *PostgresRepo) between(ctx context.Context, tag string, from, to time.Time) ([]sample, error) {
	out, err := r.querySamples(ctx,
		`SELECT time, value FROM time_series_data WHERE tag = $1 AND time >= $2 AND time <= $3 ORDER BY time`,
		tag, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", tag, err)
	}
	return out, nil
}

// before returns the last event before t, or at t when inclusive.
func (r *PostgresRepo) before(ctx context.Context, tag string, t time.Time, inclusive bool) (sample, bool, error) {
	op := "<"
	if inclusive {
		op = "<="
	}
	return r.one(ctx, tag, fmt.Sprintf(
		`SELECT time, value FROM time_series_data WHERE tag = $1 AND time %s $2 ORDER BY time DESC LIMIT 1`, op), t)
}

// after returns the first event after t, or at t when inclusive.
func (r *PostgresRepo) after(ctx context.Context, tag string, t time.Time, inclusive bool) (sample, bool, error) {
	op := ">"
	if inclusive {
		op = ">="
	}
	return r.one(ctx, tag, fmt.Sprintf(
		`SELECT time, value FROM time_series_data WHERE tag = $1 AND time %s $2 ORDER BY time ASC LIMIT 1`, op), t)
}

func (r *PostgresRepo) latest(ctx context.Context, tag string) (sample, bool, error) {
	out, err := r.querySamples(ctx,
		`SELECT time, value FROM time_series_data WHERE tag = $1 ORDER BY time DESC LIMIT 1`, tag)
	if err != nil {
		return sample{}, false, fmt.Errorf("failed to query %s: %w", tag, err)
	}
	if len(out) == 0 {
		return sample{}, false, nil
	}
	return out[0], true, nil
}

func (r *PostgresRepo) one(ctx context.Context, tag, query string, t time.Time) (sample, bool, error) {
	out, err := r.querySamples(ctx, query, tag, t.UTC())
	if err != nil {
		return sample{}, false, fmt.Errorf("failed to query %s: %w", tag, err)
	}
	if len(out) == 0 {
		return sample{}, false, nil
	}
	return out[0], true, nil
}

// window returns the events in [from, to] together with the event just
// before from and the one just after to, when they exist.
func (r *PostgresRepo) window(ctx context.Context, tag string, from, to time.Time) ([]sample, error) {
	inside, err := r.between(ctx, tag, from, to)
	if err != nil {
		return nil, err
	}
	prev, ok, err := r.before(ctx, tag, from, false)
	if err != nil {
		return nil, err
	}
	out := make([]sample, 0, len(inside)+2)
	if ok {
		out = append(out, prev)
	}
	out = append(out, inside...)
	next, ok, err := r.after(ctx, tag, to, false)
	if err != nil {
		return nil, err
	}
	if ok {
		out = append(out, next)
	}
	return out, nil
}

func (r *PostgresRepo) insert(ctx context.Context, tag string, t time.Time, v sql.NullFloat64) error {
	if _, err := r.db.ExecContext(ctx, insertEvent, tag, t.UTC(), v); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (r *PostgresRepo) replace(ctx context.Context, tag string, t time.Time, v sql.NullFloat64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_series_data SET value = $3 WHERE tag = $1 AND time = $2`, tag, t.UTC(), v)
	if err != nil {
		return 0, fmt.Errorf("failed to replace event: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepo) remove(ctx context.Context, tag string, t time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM time_series_data WHERE tag = $1 AND time = $2`, tag, t.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to remove event: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepo) exists(ctx context.Context, tag string, t time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM time_series_data WHERE tag = $1 AND time = $2`, tag, t.UTC()).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query %s: %w", tag, err)
	}
	return n > 0, nil
}
