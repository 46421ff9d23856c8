package database

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/source"
	"github.com/tejusbharadwaj/histseries/internal/timespec"
	"github.com/tejusbharadwaj/histseries/internal/timestamp"
)

const (
	betweenQuery = `SELECT time, value FROM time_series_data WHERE tag = \$1 AND time >= \$2 AND time <= \$3 ORDER BY time`
	beforeQuery  = `SELECT time, value FROM time_series_data WHERE tag = \$1 AND time < \$2 ORDER BY time DESC LIMIT 1`
	atBefore     = `SELECT time, value FROM time_series_data WHERE tag = \$1 AND time <= \$2 ORDER BY time DESC LIMIT 1`
	afterQuery   = `SELECT time, value FROM time_series_data WHERE tag = \$1 AND time > \$2 ORDER BY time ASC LIMIT 1`
	latestQuery  = `SELECT time, value FROM time_series_data WHERE tag = \$1 ORDER BY time DESC LIMIT 1`
	pointQuery   = `SELECT tag, engunits, descriptor, step, creationdate FROM points WHERE tag = \$1`
)

var (
	now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	t0  = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
)

func newMockRepo(t *testing.T, opts ...Option) (*PostgresRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	return NewPostgresRepoWithDB(db, opts...), mock
}

func valueRows(values ...any) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"time", "value"})
	for i := 0; i+1 < len(values); i += 2 {
		rows.AddRow(values[i].(time.Time), values[i+1])
	}
	return rows
}

func emptyRows() *sqlmock.Rows { return sqlmock.NewRows([]string{"time", "value"}) }

func expectPoint(mock sqlmock.Sqlmock, tag string, step bool) {
	mock.ExpectQuery(pointQuery).WithArgs(tag).WillReturnRows(
		sqlmock.NewRows([]string{"tag", "engunits", "descriptor", "step", "creationdate"}).
			AddRow(tag, "m3/h", "Feed flow", step, t0))
}

func lookupPoint(t *testing.T, repo *PostgresRepo, mock sqlmock.Sqlmock) source.PointClient {
	t.Helper()
	expectPoint(mock, "FIC101.PV", false)
	p, err := repo.LookupPoint(context.Background(), "FIC101.PV")
	require.NoError(t, err)
	return p
}

func TestLookupPoint(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := lookupPoint(t, repo, mock)

	assert.Equal(t, "FIC101.PV", p.Tag())
	attrs, err := p.RawAttributes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "m3/h", attrs[source.AttrEngUnits])
	assert.Equal(t, "Feed flow", attrs[source.AttrDescriptor])
	assert.Equal(t, timestamp.FromTime(t0), attrs[source.AttrCreationDate])

	mock.ExpectQuery(pointQuery).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"tag", "engunits", "descriptor", "step", "creationdate"}))
	_, err = repo.LookupPoint(context.Background(), "nope")
	assert.ErrorIs(t, err, source.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPoints(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT tag FROM points WHERE tag LIKE \$1 ORDER BY tag`).
		WithArgs("FIC%.PV").
		WillReturnRows(sqlmock.NewRows([]string{"tag"}).AddRow("FIC101.PV").AddRow("FIC102.PV"))

	tags, err := repo.SearchPoints(context.Background(), "FIC*.PV")
	require.NoError(t, err)
	assert.Equal(t, []string{"FIC101.PV", "FIC102.PV"}, tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordedValuesInside(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := lookupPoint(t, repo, mock)

	mock.ExpectQuery(betweenQuery).WithArgs("FIC101.PV", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(valueRows(t0, 1.0, t0.Add(time.Minute), nil, t0.Add(2*time.Minute), 3.0))

	r, err := timespec.NewRange(timespec.At(t0), timespec.At(t0.Add(time.Hour)))
	require.NoError(t, err)
	values, err := p.RecordedValues(context.Background(), r, query.BoundaryInside, "", false)
	require.NoError(t, err)

	require.Len(t, values, 3)
	assert.Equal(t, 1.0, values[0].Value)
	assert.Nil(t, values[1].Value)
	assert.Equal(t, timestamp.FromTime(t0.Add(2*time.Minute)), values[2].Timestamp)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordedValuesReversedRange(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := lookupPoint(t, repo, mock)

	mock.ExpectQuery(betweenQuery).
		WillReturnRows(valueRows(t0, 1.0, t0.Add(time.Minute), 2.0))

	r, err := timespec.NewRange(timespec.At(t0.Add(time.Hour)), timespec.At(t0))
	require.NoError(t, err)
	values, err := p.RecordedValues(context.Background(), r, query.BoundaryInside, "", false)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, 2.0, values[0].Value)
}

func TestRecordedValuesFiltered(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := lookupPoint(t, repo, mock)

	events := func() *sqlmock.Rows {
		return valueRows(t0, 1.0, t0.Add(time.Minute), 7.0, t0.Add(2*time.Minute), 9.0)
	}
	mock.ExpectQuery(betweenQuery).WillReturnRows(events())
	// the filter loads the referenced tag with its neighbours
	mock.ExpectQuery(betweenQuery).WillReturnRows(events())
	mock.ExpectQuery(beforeQuery).WillReturnRows(emptyRows())
	mock.ExpectQuery(afterQuery).WillReturnRows(emptyRows())

	r, err := timespec.NewRange(timespec.At(t0), timespec.At(t0.Add(time.Hour)))
	require.NoError(t, err)

	values, err := p.RecordedValues(context.Background(), r, query.BoundaryInside, "'FIC101.PV' > 5", false)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, 7.0, values[0].Value)
	assert.Equal(t, 9.0, values[1].Value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordedValueModes(t *testing.T) {
	ctx := context.Background()
	at := timespec.At(t0)

	t.Run("auto falls back to the next event", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		p := lookupPoint(t, repo, mock)
		mock.ExpectQuery(atBefore).WillReturnRows(emptyRows())
		mock.ExpectQuery(afterQuery).WillReturnRows(valueRows(t0.Add(time.Minute), 4.0))

		v, err := p.RecordedValue(ctx, at, query.RetrievalAuto)
		require.NoError(t, err)
		assert.Equal(t, 4.0, v.Value)
	})

	t.Run("exact without event", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		p := lookupPoint(t, repo, mock)
		mock.ExpectQuery(atBefore).WillReturnRows(valueRows(t0.Add(-time.Minute), 4.0))

		_, err := p.RecordedValue(ctx, at, query.RetrievalExact)
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("before", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		p := lookupPoint(t, repo, mock)
		mock.ExpectQuery(beforeQuery).WillReturnRows(valueRows(t0.Add(-time.Minute), 2.0))

		v, err := p.RecordedValue(ctx, at, query.RetrievalBefore)
		require.NoError(t, err)
		assert.Equal(t, 2.0, v.Value)
	})
}

func TestInterpolatedValue(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := lookupPoint(t, repo, mock)

	mock.ExpectQuery(betweenQuery).WillReturnRows(emptyRows())
	mock.ExpectQuery(beforeQuery).WillReturnRows(valueRows(t0.Add(-time.Minute), 1.0))
	mock.ExpectQuery(afterQuery).WillReturnRows(valueRows(t0.Add(time.Minute), 3.0))

	v, err := p.InterpolatedValue(context.Background(), timespec.At(t0))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v.Value, 1e-9)
	assert.Equal(t, timestamp.FromTime(t0), v.Timestamp)
}

func TestInterpolatedValueRelativeTime(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := lookupPoint(t, repo, mock)

	// "*-1h" resolves against the repository clock
	want := now.Add(-time.Hour)
	mock.ExpectQuery(betweenQuery).WillReturnRows(valueRows(want, 5.0))
	mock.ExpectQuery(beforeQuery).WillReturnRows(emptyRows())
	mock.ExpectQuery(afterQuery).WillReturnRows(emptyRows())

	v, err := p.InterpolatedValue(context.Background(), timespec.Expr("*-1h"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Value)
	assert.Equal(t, timestamp.FromTime(want), v.Timestamp)
}

func TestFilteredSummaries(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := lookupPoint(t, repo, mock)

	events := func() *sqlmock.Rows {
		return valueRows(t0, 0.0, t0.Add(time.Hour), 10.0, t0.Add(2*time.Hour), 10.0)
	}
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(betweenQuery).WillReturnRows(events())
		mock.ExpectQuery(beforeQuery).WillReturnRows(emptyRows())
		mock.ExpectQuery(afterQuery).WillReturnRows(emptyRows())
	}

	r, err := timespec.NewRange(timespec.At(t0), timespec.At(t0.Add(2*time.Hour)))
	require.NoError(t, err)
	out, err := p.FilteredSummaries(context.Background(), r, "2h", "'FIC101.PV' > 5",
		query.SummaryAverage|query.SummaryCount, query.TimeWeighted, query.ExpressionRecordedValues, "", query.TimestampAuto)
	require.NoError(t, err)

	require.Len(t, out[query.SummaryAverage], 1)
	assert.InDelta(t, 10.0, out[query.SummaryAverage][0].Value, 1e-9)
	assert.Equal(t, 1.0, out[query.SummaryCount][0].Value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaries(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := lookupPoint(t, repo, mock)

	mock.ExpectQuery(betweenQuery).
		WillReturnRows(valueRows(t0, 1.0, t0.Add(30*time.Minute), 2.0, t0.Add(90*time.Minute), 4.0))
	mock.ExpectQuery(beforeQuery).WillReturnRows(emptyRows())
	mock.ExpectQuery(afterQuery).WillReturnRows(emptyRows())

	r, err := timespec.NewRange(timespec.At(t0), timespec.At(t0.Add(2*time.Hour)))
	require.NoError(t, err)
	out, err := p.Summaries(context.Background(), r, "1h", query.SummaryMaximum|query.SummaryCount,
		query.EventWeighted, query.TimestampAuto)
	require.NoError(t, err)

	require.Len(t, out[query.SummaryCount], 2)
	assert.Equal(t, 2.0, out[query.SummaryCount][0].Value)
	assert.Equal(t, 1.0, out[query.SummaryCount][1].Value)
	assert.Equal(t, 4.0, out[query.SummaryMaximum][1].Value)
	assert.Equal(t, timestamp.FromTime(t0.Add(90*time.Minute)), out[query.SummaryMaximum][1].Timestamp)
}

func TestUpdateValueModes(t *testing.T) {
	ctx := context.Background()
	at := timespec.At(t0)
	update := `UPDATE time_series_data SET value = \$3 WHERE tag = \$1 AND time = \$2`
	insert := `INSERT INTO time_series_data \(tag, time, value\) VALUES \(\$1, \$2, \$3\)`

	t.Run("replace inserts when missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		p := lookupPoint(t, repo, mock)
		mock.ExpectExec(update).WithArgs("FIC101.PV", t0, 4.2).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(insert).WithArgs("FIC101.PV", t0, 4.2).WillReturnResult(sqlmock.NewResult(0, 1))

		err := p.UpdateValue(ctx, models.ValueEnvelope{Value: 4.2, Time: &at}, query.UpdateReplace, query.DoNotBuffer)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no replace keeps existing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		p := lookupPoint(t, repo, mock)
		mock.ExpectQuery(`SELECT count\(\*\) FROM time_series_data`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := p.UpdateValue(ctx, models.ValueEnvelope{Value: 4.2, Time: &at}, query.UpdateNoReplace, query.DoNotBuffer)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("remove missing event", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		p := lookupPoint(t, repo, mock)
		mock.ExpectExec(`DELETE FROM time_series_data`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := p.UpdateValue(ctx, models.ValueEnvelope{Time: &at}, query.UpdateRemove, query.DoNotBuffer)
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("insert without time uses the clock", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		p := lookupPoint(t, repo, mock)
		mock.ExpectExec(insert).WithArgs("FIC101.PV", now, driver.Value(nil)).WillReturnResult(sqlmock.NewResult(0, 1))

		err := p.UpdateValue(ctx, models.ValueEnvelope{}, query.UpdateInsert, query.BufferIfPossible)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("buffer requires a write buffer", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		p := lookupPoint(t, repo, mock)

		err := p.UpdateValue(ctx, models.ValueEnvelope{Value: 1.0}, query.UpdateInsert, query.Buffer)
		assert.ErrorIs(t, err, ErrBufferUnavailable)
	})

	t.Run("non numeric value", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		p := lookupPoint(t, repo, mock)

		err := p.UpdateValue(ctx, models.ValueEnvelope{Value: "Shutdown"}, query.UpdateInsert, query.DoNotBuffer)
		assert.ErrorIs(t, err, models.ErrNonNumeric)
	})
}

func TestWriteBuffer(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t, WithWriteBuffer(2))
	p := lookupPoint(t, repo, mock)

	require.NoError(t, p.UpdateValue(ctx, models.ValueEnvelope{Value: 1.0}, query.UpdateInsert, query.Buffer))
	assert.Equal(t, 1, repo.Pending())

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO time_series_data`)
	prep.ExpectExec().WithArgs("FIC101.PV", now, 1.0).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs("FIC101.PV", now, 2.0).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, p.UpdateValue(ctx, models.ValueEnvelope{Value: 2.0}, query.UpdateInsert, query.BufferIfPossible))
	assert.Equal(t, 0, repo.Pending())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchInsertRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO time_series_data`)
	prep.ExpectExec().WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.BatchInsert(context.Background(), "FIC101.PV", []models.RawValue{
		{Timestamp: timestamp.FromTime(t0), Value: 1.0},
	})
	assert.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeConvertsUnits(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	cols := []string{"element", "name", "parent", "tag", "default_uom", "description", "engunits", "step"}
	mock.ExpectQuery(`SELECT a.element, a.name`).WithArgs("Reactor1", "Temperature").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("Reactor1", "Temperature", "", "TI200.PV", "degF", "Bed temperature", "degC", false))

	attr, err := repo.LookupAttribute(ctx, "Reactor1", "Temperature")
	require.NoError(t, err)
	assert.Equal(t, "degF", attr.DefaultUOM())

	parent, err := attr.Parent(ctx)
	require.NoError(t, err)
	assert.Nil(t, parent)

	mock.ExpectQuery(latestQuery).WithArgs("TI200.PV").WillReturnRows(valueRows(t0, 100.0))
	v, err := attr.CurrentValue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 212.0, v.Value, 1e-9)

	mock.ExpectQuery(atBefore).WillReturnRows(valueRows(t0, 100.0))
	v, err = attr.RecordedValue(ctx, timespec.At(t0), query.RetrievalAtOrBefore, "K")
	require.NoError(t, err)
	assert.InDelta(t, 373.15, v.Value, 1e-9)

	_, err = attr.RecordedValue(ctx, timespec.At(t0), query.RetrievalAtOrBefore, "bar")
	assert.ErrorIs(t, err, ErrUnitConversion)

	mock.ExpectQuery(`SELECT a.element, a.name`).WithArgs("Reactor1", "Temperature").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("Reactor1", "Setpoint", "Temperature", "", "degC", "", "", false))
	mock.ExpectQuery(`SELECT a.element, a.name`).WithArgs("Reactor1", "Temperature").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("Reactor1", "Temperature", "", "TI200.PV", "degF", "Bed temperature", "degC", false))

	children, err := attr.Children(ctx)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Setpoint", children[0].Name())

	_, err = children[0].CurrentValue(ctx)
	assert.ErrorIs(t, err, ErrNoDataReference)

	back, err := children[0].Parent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Temperature", back.Name())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseFlushes(t *testing.T) {
	repo, mock := newMockRepo(t, WithWriteBuffer(10))
	p := lookupPoint(t, repo, mock)
	require.NoError(t, p.UpdateValue(context.Background(), models.ValueEnvelope{Value: 1.0}, query.UpdateInsert, query.Buffer))

	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO time_series_data`).ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	require.NoError(t, repo.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithMaxConnections(t *testing.T) {
	repo, _ := newMockRepo(t, WithMaxConnections(3))
	assert.Equal(t, 3, repo.db.Stats().MaxOpenConnections)
}

func TestIntervalLimit(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t, WithMaxIntervals(24))
	assert.Equal(t, 24, repo.maxIntervals)
	p := lookupPoint(t, repo, mock)

	r, err := timespec.NewRange(timespec.At(t0), timespec.At(t0.Add(2*time.Hour)))
	require.NoError(t, err)

	// 121 one-minute steps over two hours, rejected before any query
	_, err = p.InterpolatedValues(ctx, r, "1m", "", false)
	assert.ErrorIs(t, err, query.ErrInvalidParameter)

	_, err = p.Summaries(ctx, r, "1m", query.SummaryAverage, query.TimeWeighted, query.TimestampAuto)
	assert.ErrorIs(t, err, query.ErrInvalidParameter)

	_, err = p.FilteredSummaries(ctx, r, "1h", "'FIC101.PV' > 1", query.SummaryAverage,
		query.TimeWeighted, query.ExpressionInterval, "1s", query.TimestampAuto)
	assert.ErrorIs(t, err, query.ErrInvalidParameter)

	reversed, err := timespec.NewRange(timespec.At(t0.Add(2*time.Hour)), timespec.At(t0))
	require.NoError(t, err)
	_, err = p.InterpolatedValues(ctx, reversed, "1m", "", false)
	assert.ErrorIs(t, err, query.ErrInvalidParameter)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDefaultIntervalLimit(t *testing.T) {
	repo, _ := newMockRepo(t, WithMaxIntervals(0))
	assert.Equal(t, DefaultMaxIntervals, repo.maxIntervals)
}
