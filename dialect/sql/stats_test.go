package sql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStatsConn(t *testing.T, opts ...StatsOption) (*StatsConn, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStatsConn(OpenDB(db), opts...), mock
}

func TestStatsConnCounts(t *testing.T) {
	c, mock := newMockStatsConn(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1;").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(int64(1)))
	mock.ExpectExec("DELETE FROM item;").
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := c.ExecuteQuery(context.Background(), "SELECT 1;", nil)
	require.NoError(t, err)
	_, err = c.ExecuteQuery(context.Background(), "DELETE FROM item;", nil, NoFetch())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	snap := c.QueryStats().Stats()
	assert.Equal(t, int64(1), snap.TotalQueries)
	assert.Equal(t, int64(1), snap.TotalExecs)
	assert.Equal(t, int64(0), snap.Errors)
	assert.Greater(t, snap.TotalDuration, time.Duration(0))
	assert.Greater(t, snap.AvgDuration(), time.Duration(0))

	c.QueryStats().Reset()
	snap = c.QueryStats().Stats()
	assert.Equal(t, int64(0), snap.TotalQueries)
	assert.Equal(t, time.Duration(0), snap.TotalDuration)
}

func TestStatsConnCountsErrors(t *testing.T) {
	c, mock := newMockStatsConn(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT broken;").
		WillReturnError(errors.New("syntax error"))

	_, err := c.ExecuteQuery(context.Background(), "SELECT broken;", nil)
	require.Error(t, err)
	assert.Equal(t, int64(1), c.QueryStats().Stats().Errors)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsConnSlowQueryHook(t *testing.T) {
	var slowQuery string
	var slowDuration time.Duration
	c, mock := newMockStatsConn(t,
		WithSlowThreshold(0),
		WithSlowQueryHook(func(_ context.Context, query string, _ []any, d time.Duration) {
			slowQuery = query
			slowDuration = d
		}),
	)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT pg_sleep(1);").
		WillReturnRows(sqlmock.NewRows([]string{"pg_sleep"}).AddRow(""))

	_, err := c.ExecuteQuery(context.Background(), "SELECT pg_sleep(1);", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT pg_sleep(1);", slowQuery)
	assert.Greater(t, slowDuration, time.Duration(0))
	assert.Equal(t, int64(1), c.QueryStats().Stats().SlowQueries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsConnThreshold(t *testing.T) {
	c, _ := newMockStatsConn(t, WithSlowThreshold(250*time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, c.SlowThreshold())
	c.SetSlowThreshold(time.Second)
	assert.Equal(t, time.Second, c.SlowThreshold())
}

func TestStatsSnapshotString(t *testing.T) {
	snap := StatsSnapshot{
		TotalQueries:  2,
		TotalExecs:    2,
		TotalDuration: 4 * time.Second,
		SlowQueries:   1,
		Errors:        1,
	}
	assert.Equal(t, "queries=2 execs=2 duration=4s avg=1s slow=1 errors=1", snap.String())
	assert.Equal(t, time.Duration(0), StatsSnapshot{}.AvgDuration())
}
