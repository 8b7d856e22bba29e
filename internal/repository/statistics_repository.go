package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/uad-deukouway/housing-api/internal/models"
)

// StatisticsRepository issues the independent range-count queries behind
// the admin dashboard. Each call is one COUNT(*); the aggregator decides
// the windows.
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new instance of StatisticsRepository.
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// CountUsers counts accounts matching the filter.
func (r *StatisticsRepository) CountUsers(ctx context.Context, filter models.UserCountFilter) (int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.ExcludeAdmins {
		conditions = append(conditions, "role <> 'admin'")
	}
	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Verified != nil {
		conditions = append(conditions, fmt.Sprintf("verified = $%d", len(args)+1))
		args = append(args, *filter.Verified)
	}
	if filter.CreatedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(args)+1))
		args = append(args, *filter.CreatedTo)
	}

	query := "SELECT COUNT(*) FROM users WHERE " + strings.Join(conditions, " AND ")
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

// CountListings counts listings matching the filter.
func (r *StatisticsRepository) CountListings(ctx context.Context, filter models.ListingCountFilter) (int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Validated != nil {
		conditions = append(conditions, fmt.Sprintf("admin_validated = $%d", len(args)+1))
		args = append(args, *filter.Validated)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.CreatedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(args)+1))
		args = append(args, *filter.CreatedTo)
	}

	query := "SELECT COUNT(*) FROM listings WHERE " + strings.Join(conditions, " AND ")
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return total, nil
}
