package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uad-deukouway/housing-api/internal/models"
)

type mockStatsRepo struct {
	countUsers    func(models.UserCountFilter) (int, error)
	countListings func(models.ListingCountFilter) (int, error)
}

func (m *mockStatsRepo) CountUsers(ctx context.Context, filter models.UserCountFilter) (int, error) {
	if m.countUsers == nil {
		return 0, nil
	}
	return m.countUsers(filter)
}

func (m *mockStatsRepo) CountListings(ctx context.Context, filter models.ListingCountFilter) (int, error) {
	if m.countListings == nil {
		return 0, nil
	}
	return m.countListings(filter)
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 31, 12, 30, 0, 0, time.UTC)
}

func dayOf(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func TestReportGrowthAndWindows(t *testing.T) {
	now := fixedNow()
	dayStart := dayOf(now)
	yesterdayStart := dayStart.AddDate(0, 0, -1)

	repo := &mockStatsRepo{
		countUsers: func(f models.UserCountFilter) (int, error) {
			if f.CreatedFrom == nil {
				return 50, nil
			}
			switch {
			case f.CreatedFrom.Equal(dayStart) && f.CreatedTo.Equal(now):
				return 4, nil
			case f.CreatedFrom.Equal(yesterdayStart) && f.CreatedTo.Equal(dayStart):
				return 2, nil
			default:
				return 0, nil
			}
		},
		countListings: func(f models.ListingCountFilter) (int, error) {
			if f.CreatedFrom == nil {
				return 20, nil
			}
			switch {
			case f.CreatedFrom.Equal(dayStart) && f.CreatedTo.Equal(now):
				return 1, nil
			case f.CreatedFrom.Equal(yesterdayStart) && f.CreatedTo.Equal(dayStart):
				return 3, nil
			default:
				return 0, nil
			}
		},
	}

	svc := NewStatisticsService(repo, nil, nil, zap.NewNop())
	svc.now = fixedNow

	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.DailyStats.UsersToday)
	assert.Equal(t, 2, report.DailyStats.UsersYesterday)
	assert.InDelta(t, 100.0, report.DailyStats.UserGrowthToday, 0.001)
	assert.InDelta(t, -66.67, report.DailyStats.ListingGrowth, 0.001)
	assert.Equal(t, now, report.GeneratedAt)
}

func TestReportZeroBaselineGrowth(t *testing.T) {
	repo := &mockStatsRepo{
		countUsers: func(f models.UserCountFilter) (int, error) {
			if f.CreatedFrom != nil && f.CreatedFrom.Equal(dayOf(fixedNow())) {
				return 9, nil
			}
			return 0, nil
		},
	}

	svc := NewStatisticsService(repo, nil, nil, zap.NewNop())
	svc.now = fixedNow

	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, report.DailyStats.UsersToday)
	assert.Equal(t, 0, report.DailyStats.UsersYesterday)
	assert.Zero(t, report.DailyStats.UserGrowthToday)
}

func TestReportChartSeries(t *testing.T) {
	svc := NewStatisticsService(&mockStatsRepo{}, nil, nil, zap.NewNop())
	svc.now = fixedNow

	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	require.Len(t, report.ChartData, 7)
	assert.Equal(t, "2026-08-25", report.ChartData[0].Date)
	assert.Equal(t, "2026-08-31", report.ChartData[6].Date)
	for i := 1; i < len(report.ChartData); i++ {
		prev, _ := time.Parse("2006-01-02", report.ChartData[i-1].Date)
		cur, _ := time.Parse("2006-01-02", report.ChartData[i].Date)
		assert.Equal(t, prev.AddDate(0, 0, 1), cur)
	}
}

func TestGlobalStatsExcludeAdmins(t *testing.T) {
	var sawExclude bool
	repo := &mockStatsRepo{
		countUsers: func(f models.UserCountFilter) (int, error) {
			if f.ExcludeAdmins && f.Role == nil && f.Verified == nil && f.CreatedFrom == nil {
				sawExclude = true
				return 42, nil
			}
			return 0, nil
		},
	}

	svc := NewStatisticsService(repo, nil, nil, zap.NewNop())
	svc.now = fixedNow

	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.True(t, sawExclude)
	assert.Equal(t, 42, report.GlobalStats.TotalUsers)
}

func TestReportDayBoundaryFollowsServerZone(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	localNow := time.Date(2026, 8, 31, 0, 30, 0, 0, loc)
	localMidnight := time.Date(2026, 8, 31, 0, 0, 0, 0, loc)

	var todayFrom time.Time
	repo := &mockStatsRepo{
		countUsers: func(f models.UserCountFilter) (int, error) {
			if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedTo.Equal(localNow) && todayFrom.IsZero() {
				todayFrom = *f.CreatedFrom
			}
			return 0, nil
		},
	}

	svc := NewStatisticsService(repo, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return localNow }

	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	// half past midnight local time is still the 31st, not the UTC 30th
	assert.True(t, todayFrom.Equal(localMidnight), "today window starts at %v, want %v", todayFrom, localMidnight)
	assert.Equal(t, "2026-08-31", report.ChartData[6].Date)
}

func TestReportObservesQueryTiming(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewStatisticsService(&mockStatsRepo{}, nil, metrics, zap.NewNop())
	svc.now = fixedNow

	_, err := svc.Report(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `db_query_duration_seconds_count{query="users_range_count"}`)
	assert.Contains(t, body, `db_query_duration_seconds_count{query="listings_range_count"}`)
	assert.Contains(t, body, `db_query_duration_seconds_count{query="stats_totals"}`)
}

func TestGrowthRounding(t *testing.T) {
	assert.InDelta(t, 33.33, growthPercent(4, 3), 0.001)
	assert.InDelta(t, -50.0, growthPercent(1, 2), 0.001)
	assert.Zero(t, growthPercent(5, 0))
	assert.InDelta(t, -100.0, growthPercent(0, 4), 0.001)
}
