package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/uad-deukouway/housing-api/internal/models"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
)

const statsCacheKey = "stats:report"

type statisticsRepository interface {
	CountUsers(ctx context.Context, filter models.UserCountFilter) (int, error)
	CountListings(ctx context.Context, filter models.ListingCountFilter) (int, error)
}

// StatisticsService aggregates the admin dashboard numbers.
type StatisticsService struct {
	repo    statisticsRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewStatisticsService constructs a StatisticsService instance.
func NewStatisticsService(repo statisticsRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Report assembles the dashboard totals, period counts and the 7-day
// series. Results are cached briefly; the dashboard polls.
func (s *StatisticsService) Report(ctx context.Context) (*models.StatisticsReport, error) {
	if s.cache.Enabled() {
		var cached models.StatisticsReport
		if hit, err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	report, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, statsCacheKey, report, 0)
	}
	return report, nil
}

func (s *StatisticsService) build(ctx context.Context) (*models.StatisticsReport, error) {
	// day boundaries follow the server's timezone
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := dayStart.AddDate(0, 0, -1)
	weekStart := dayStart.AddDate(0, 0, -7)
	monthStart := dayStart.AddDate(0, -1, 0)

	report := &models.StatisticsReport{GeneratedAt: now}

	global, err := s.globalStats(ctx)
	if err != nil {
		return nil, err
	}
	report.GlobalStats = *global

	usersToday, err := s.usersBetween(ctx, dayStart, now)
	if err != nil {
		return nil, err
	}
	usersYesterday, err := s.usersBetween(ctx, yesterdayStart, dayStart)
	if err != nil {
		return nil, err
	}
	usersWeek, err := s.usersBetween(ctx, weekStart, now)
	if err != nil {
		return nil, err
	}
	usersMonth, err := s.usersBetween(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}
	listingsToday, err := s.listingsBetween(ctx, dayStart, now)
	if err != nil {
		return nil, err
	}
	listingsYesterday, err := s.listingsBetween(ctx, yesterdayStart, dayStart)
	if err != nil {
		return nil, err
	}
	listingsWeek, err := s.listingsBetween(ctx, weekStart, now)
	if err != nil {
		return nil, err
	}
	listingsMonth, err := s.listingsBetween(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}

	report.DailyStats = models.PeriodStats{
		UsersToday:        usersToday,
		UsersYesterday:    usersYesterday,
		UsersThisWeek:     usersWeek,
		UsersThisMonth:    usersMonth,
		ListingsToday:     listingsToday,
		ListingsYesterday: listingsYesterday,
		ListingsThisWeek:  listingsWeek,
		ListingsThisMonth: listingsMonth,
		UserGrowthToday:   growthPercent(usersToday, usersYesterday),
		ListingGrowth:     growthPercent(listingsToday, listingsYesterday),
	}

	chart, err := s.chartData(ctx, dayStart, now)
	if err != nil {
		return nil, err
	}
	report.ChartData = chart

	return report, nil
}

func (s *StatisticsService) globalStats(ctx context.Context) (*models.GlobalStats, error) {
	global := &models.GlobalStats{}

	start := time.Now()
	defer func() { s.metrics.ObserveDBQuery("stats_totals", time.Since(start)) }()

	var err error
	if global.TotalUsers, err = s.repo.CountUsers(ctx, models.UserCountFilter{ExcludeAdmins: true}); err != nil {
		return nil, s.wrap(err, "total users")
	}

	student := models.RoleStudent
	if global.Students, err = s.repo.CountUsers(ctx, models.UserCountFilter{Role: &student}); err != nil {
		return nil, s.wrap(err, "students")
	}
	landlord := models.RoleLandlord
	if global.Landlords, err = s.repo.CountUsers(ctx, models.UserCountFilter{Role: &landlord}); err != nil {
		return nil, s.wrap(err, "landlords")
	}
	verified := true
	if global.VerifiedUsers, err = s.repo.CountUsers(ctx, models.UserCountFilter{ExcludeAdmins: true, Verified: &verified}); err != nil {
		return nil, s.wrap(err, "verified users")
	}

	if global.TotalListings, err = s.repo.CountListings(ctx, models.ListingCountFilter{}); err != nil {
		return nil, s.wrap(err, "total listings")
	}
	approved := true
	active := models.ListingStatusActive
	if global.ActiveListings, err = s.repo.CountListings(ctx, models.ListingCountFilter{Validated: &approved, Status: &active}); err != nil {
		return nil, s.wrap(err, "active listings")
	}
	pending := false
	if global.PendingListings, err = s.repo.CountListings(ctx, models.ListingCountFilter{Validated: &pending}); err != nil {
		return nil, s.wrap(err, "pending listings")
	}
	inactive := models.ListingStatusInactive
	if global.InactiveListings, err = s.repo.CountListings(ctx, models.ListingCountFilter{Status: &inactive}); err != nil {
		return nil, s.wrap(err, "inactive listings")
	}

	return global, nil
}

func (s *StatisticsService) chartData(ctx context.Context, dayStart, now time.Time) ([]models.DailyPoint, error) {
	points := make([]models.DailyPoint, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		from := dayStart.AddDate(0, 0, -offset)
		to := from.AddDate(0, 0, 1)
		if offset == 0 {
			to = now
		}

		users, err := s.usersBetween(ctx, from, to)
		if err != nil {
			return nil, err
		}
		listings, err := s.listingsBetween(ctx, from, to)
		if err != nil {
			return nil, err
		}

		points = append(points, models.DailyPoint{
			Date:     from.Format("2006-01-02"),
			Users:    users,
			Listings: listings,
		})
	}
	return points, nil
}

func (s *StatisticsService) usersBetween(ctx context.Context, from, to time.Time) (int, error) {
	start := time.Now()
	n, err := s.repo.CountUsers(ctx, models.UserCountFilter{ExcludeAdmins: true, CreatedFrom: &from, CreatedTo: &to})
	s.metrics.ObserveDBQuery("users_range_count", time.Since(start))
	if err != nil {
		return 0, s.wrap(err, "user range count")
	}
	return n, nil
}

func (s *StatisticsService) listingsBetween(ctx context.Context, from, to time.Time) (int, error) {
	start := time.Now()
	n, err := s.repo.CountListings(ctx, models.ListingCountFilter{CreatedFrom: &from, CreatedTo: &to})
	s.metrics.ObserveDBQuery("listings_range_count", time.Since(start))
	if err != nil {
		return 0, s.wrap(err, "listing range count")
	}
	return n, nil
}

func (s *StatisticsService) wrap(err error, what string) error {
	s.logger.Error("statistics query failed", zap.String("query", what), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute statistics")
}

// growthPercent is the day-over-day change in percent, rounded to two
// decimals. A zero baseline reports zero growth rather than infinity.
func growthPercent(today, yesterday int) float64 {
	if yesterday == 0 {
		return 0
	}
	pct := (float64(today) - float64(yesterday)) / float64(yesterday) * 100
	return math.Round(pct*100) / 100
}
