package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uad-deukouway/housing-api/internal/models"
)

const listingColumns = `l.id, l.user_id, l.title, l.description, l.type, l.mode, l.price, l.price_type, l.location, l.available_spots, l.total_spots, l.contact_phone, l.caution, l.admin_validated, l.status, l.views, l.validated_by, l.validation_date, l.created_at`

const ownerColumns = `u.first_name AS owner_first_name, u.last_name AS owner_last_name, u.email AS owner_email, u.phone AS owner_phone, u.role AS owner_role, u.verified AS owner_verified, u.created_at AS owner_created_at`

// ListingRepository provides database access for listings.
type ListingRepository struct {
	db *sqlx.DB
}

// NewListingRepository creates a new instance of ListingRepository.
func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Create inserts a new listing.
func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO listings (id, user_id, title, description, type, mode, price, price_type, location, available_spots, total_spots, contact_phone, caution, admin_validated, status, views, validated_by, validation_date, created_at) VALUES (:id, :user_id, :title, :description, :type, :mode, :price, :price_type, :location, :available_spots, :total_spots, :contact_phone, :caution, :admin_validated, :status, :views, :validated_by, :validation_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, listing); err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// ListPublic returns validated, active listings filtered and paginated for
// the public browse path, together with the total match count.
func (r *ListingRepository) ListPublic(ctx context.Context, filter models.ListingFilter) ([]models.ListingWithOwner, int, error) {
	conditions := []string{"l.status = 'active'", "l.admin_validated = TRUE"}
	var args []interface{}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(l.title) LIKE $%d OR LOWER(l.description) LIKE $%d OR LOWER(l.location) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, pattern)
	}
	if filter.Type != "" && filter.Type != "all" {
		conditions = append(conditions, fmt.Sprintf("l.type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Mode != "" && filter.Mode != "all" {
		conditions = append(conditions, fmt.Sprintf("l.mode = $%d", len(args)+1))
		args = append(args, filter.Mode)
	}
	if filter.MaxPrice > 0 {
		conditions = append(conditions, fmt.Sprintf("l.price <= $%d", len(args)+1))
		args = append(args, filter.MaxPrice)
	}
	switch filter.Caution {
	case "no_caution":
		conditions = append(conditions, "l.caution = 0")
	case "with_caution":
		conditions = append(conditions, "l.caution > 0")
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	listQuery := fmt.Sprintf("SELECT %s, %s FROM listings l JOIN users u ON u.id = l.user_id WHERE %s ORDER BY l.created_at DESC LIMIT %d OFFSET %d", listingColumns, ownerColumns, where, limit, offset)

	var listings []models.ListingWithOwner
	if err := r.db.SelectContext(ctx, &listings, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list public listings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM listings l WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count public listings: %w", err)
	}

	return listings, total, nil
}

// FindDetail returns an active listing joined with its owner. Inactive and
// rented listings are invisible on the public detail path.
func (r *ListingRepository) FindDetail(ctx context.Context, id string) (*models.ListingWithOwner, error) {
	query := fmt.Sprintf("SELECT %s, %s FROM listings l JOIN users u ON u.id = l.user_id WHERE l.id = $1 AND l.status = 'active' LIMIT 1", listingColumns, ownerColumns)
	var listing models.ListingWithOwner
	if err := r.db.GetContext(ctx, &listing, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find listing detail: %w", err)
	}
	return &listing, nil
}

// FindByID returns a listing row regardless of visibility.
func (r *ListingRepository) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listings l WHERE l.id = $1 LIMIT 1", listingColumns)
	var listing models.Listing
	if err := r.db.GetContext(ctx, &listing, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find listing by id: %w", err)
	}
	return &listing, nil
}

// ListByUser returns every listing of an owner, validated or not.
func (r *ListingRepository) ListByUser(ctx context.Context, userID string) ([]models.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listings l WHERE l.user_id = $1 ORDER BY l.created_at DESC", listingColumns)
	var listings []models.Listing
	if err := r.db.SelectContext(ctx, &listings, query, userID); err != nil {
		return nil, fmt.Errorf("list user listings: %w", err)
	}
	return listings, nil
}

// ListAll returns every listing joined with owner contact info for the
// moderation dashboard.
func (r *ListingRepository) ListAll(ctx context.Context) ([]models.ListingWithOwner, error) {
	query := fmt.Sprintf("SELECT %s, %s FROM listings l JOIN users u ON u.id = l.user_id ORDER BY l.created_at DESC", listingColumns, ownerColumns)
	var listings []models.ListingWithOwner
	if err := r.db.SelectContext(ctx, &listings, query); err != nil {
		return nil, fmt.Errorf("list all listings: %w", err)
	}
	return listings, nil
}

// Delete removes a listing.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM listings WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementViews bumps the view counter. The increment happens in SQL so
// concurrent reads never lose a count.
func (r *ListingRepository) IncrementViews(ctx context.Context, id string) error {
	const query = `UPDATE listings SET views = views + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// SetValidation applies a moderation transition, stamping the validator
// and the validation timestamp.
func (r *ListingRepository) SetValidation(ctx context.Context, id string, validated bool, status models.ListingStatus, by string, at time.Time) error {
	const query = `UPDATE listings SET admin_validated = $2, status = $3, validated_by = $4, validation_date = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, validated, status, by, at)
	if err != nil {
		return fmt.Errorf("set validation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
