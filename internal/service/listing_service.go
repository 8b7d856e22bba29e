package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uad-deukouway/housing-api/internal/models"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
	"github.com/uad-deukouway/housing-api/pkg/export"
	"github.com/uad-deukouway/housing-api/pkg/jobs"
)

const (
	listingCachePrefix = "listings:"
	defaultPageLimit   = 20
	maxPageLimit       = 100
)

type listingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	ListPublic(ctx context.Context, filter models.ListingFilter) ([]models.ListingWithOwner, int, error)
	FindDetail(ctx context.Context, id string) (*models.ListingWithOwner, error)
	FindByID(ctx context.Context, id string) (*models.Listing, error)
	ListByUser(ctx context.Context, userID string) ([]models.Listing, error)
	ListAll(ctx context.Context) ([]models.ListingWithOwner, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	SetValidation(ctx context.Context, id string, validated bool, status models.ListingStatus, by string, at time.Time) error
}

type viewQueue interface {
	Enqueue(job jobs.Job) error
}

// ListingService owns the submission, browsing and moderation use cases.
type ListingService struct {
	repo      listingRepository
	cache     *CacheService
	views     viewQueue
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewListingService constructs a ListingService instance.
func NewListingService(repo listingRepository, cache *CacheService, views viewQueue, validate *validator.Validate, logger *zap.Logger) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ListingService{
		repo:      repo,
		cache:     cache,
		views:     views,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a submission on behalf of the actor. Listings created by an
// admin skip the moderation queue.
func (s *ListingService) Create(ctx context.Context, actor *models.User, req models.CreateListingRequest) (*models.Listing, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid listing payload")
	}

	mode := models.ListingMode(req.Mode)

	priceType := models.PriceType(req.PriceType)
	if priceType == "" {
		priceType = models.PriceTypeTotal
		if mode == models.ListingModeColocation {
			priceType = models.PriceTypePerPerson
		}
	}

	var availableSpots, totalSpots *int
	if mode == models.ListingModeColocation {
		spots := req.AvailableSpots
		if spots <= 0 {
			spots = 1
		}
		availableSpots = &spots
		total := spots
		totalSpots = &total
	}

	autoValidated := actor.Role == models.RoleAdmin

	listing := &models.Listing{
		UserID:         actor.ID,
		Title:          req.Title,
		Description:    req.Description,
		Type:           models.ListingType(req.Type),
		Mode:           mode,
		Price:          req.Price,
		PriceType:      priceType,
		Location:       req.Location,
		AvailableSpots: availableSpots,
		TotalSpots:     totalSpots,
		ContactPhone:   req.Contact,
		Caution:        req.CautionAmount,
		AdminValidated: autoValidated,
		Status:         models.ListingStatusActive,
	}
	if autoValidated {
		by := actor.ID
		at := s.now()
		listing.ValidatedBy = &by
		listing.ValidationDate = &at
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create listing")
	}

	s.invalidatePublicCache(ctx)
	s.logger.Info("listing submitted",
		zap.String("listing_id", listing.ID),
		zap.String("user_id", actor.ID),
		zap.Bool("auto_validated", autoValidated))

	return listing, nil
}

// Browse returns the approved, active listings matching the filter.
func (s *ListingService) Browse(ctx context.Context, filter models.ListingFilter) ([]models.PublicListing, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	type cachedPage struct {
		Items      []models.PublicListing `json:"items"`
		Pagination models.Pagination      `json:"pagination"`
	}

	cacheKey := browseCacheKey(filter)
	if s.cache != nil && s.cache.Enabled() {
		var page cachedPage
		if hit, err := s.cache.Get(ctx, cacheKey, &page); err == nil && hit {
			return page.Items, &page.Pagination, nil
		}
	}

	rows, total, err := s.repo.ListPublic(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list listings")
	}

	items := make([]models.PublicListing, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].Public())
	}

	pagination := models.Pagination{
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}

	if s.cache != nil && s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, cachedPage{Items: items, Pagination: pagination}, 0)
	}

	return items, &pagination, nil
}

// Detail returns one approved, active listing and schedules a view-counter
// increment off the request path.
func (s *ListingService) Detail(ctx context.Context, id string) (*models.PublicListing, error) {
	row, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "listing not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch listing")
	}

	if s.views != nil {
		if err := s.views.Enqueue(jobs.Job{ID: id, Type: "listing.view", Payload: id}); err != nil {
			s.logger.Debug("view increment dropped", zap.String("listing_id", id), zap.Error(err))
		}
	}

	public := row.Public()
	return &public, nil
}

// Mine returns every listing of the given owner, pending ones included.
func (s *ListingService) Mine(ctx context.Context, userID string) ([]models.Listing, error) {
	listings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list listings")
	}
	return listings, nil
}

// Delete removes a listing. Owners delete their own; admins delete any.
func (s *ListingService) Delete(ctx context.Context, actor *models.User, id string) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "listing not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch listing")
	}

	if listing.UserID != actor.ID && actor.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "you can only delete your own listings")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "listing not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete listing")
	}

	s.invalidatePublicCache(ctx)
	s.logger.Info("listing deleted", zap.String("listing_id", id), zap.String("deleted_by", actor.ID))
	return nil
}

// ListAllForAdmin returns every listing with owner contact details for the
// moderation board, regardless of validation state.
func (s *ListingService) ListAllForAdmin(ctx context.Context) ([]models.AdminListing, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list listings")
	}

	items := make([]models.AdminListing, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].Admin())
	}
	return items, nil
}

// Validate applies a moderation decision. Approval publishes the listing,
// rejection deactivates it; both stamp the deciding admin and time.
func (s *ListingService) Validate(ctx context.Context, adminID, listingID string, action models.ValidationAction) (*models.Listing, error) {
	if action != models.ValidationApprove && action != models.ValidationReject {
		return nil, appErrors.Clone(appErrors.ErrValidation, "action must be approve or reject")
	}

	validated := action == models.ValidationApprove
	status := models.ListingStatusActive
	if !validated {
		status = models.ListingStatusInactive
	}

	if err := s.repo.SetValidation(ctx, listingID, validated, status, adminID, s.now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "listing not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update listing")
	}

	s.invalidatePublicCache(ctx)
	s.logger.Info("listing moderated",
		zap.String("listing_id", listingID),
		zap.String("admin_id", adminID),
		zap.String("action", string(action)))

	return s.repo.FindByID(ctx, listingID)
}

// ExportDataset flattens the moderation board into a tabular dataset for
// the CSV and PDF exporters.
func (s *ListingService) ExportDataset(ctx context.Context) (*export.Dataset, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list listings")
	}

	dataset := &export.Dataset{
		Headers: []string{"ID", "Title", "Type", "Mode", "Price", "Location", "Owner", "Status", "Validated", "Views", "Created"},
	}
	for i := range rows {
		r := &rows[i]
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":        r.ID,
			"Title":     r.Title,
			"Type":      string(r.Type),
			"Mode":      string(r.Mode),
			"Price":     strconv.Itoa(r.Price),
			"Location":  r.Location,
			"Owner":     r.OwnerFirstName + " " + r.OwnerLastName,
			"Status":    string(r.Status),
			"Validated": strconv.FormatBool(r.AdminValidated),
			"Views":     strconv.Itoa(r.Views),
			"Created":   r.CreatedAt.Format("2006-01-02"),
		})
	}
	return dataset, nil
}

func (s *ListingService) invalidatePublicCache(ctx context.Context) {
	if s.cache == nil || !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, listingCachePrefix+"*"); err != nil {
		s.logger.Warn("listing cache invalidation failed", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, statsCacheKey); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

func browseCacheKey(filter models.ListingFilter) string {
	return fmt.Sprintf("%spublic:%s:%s:%s:%d:%s:%d:%d",
		listingCachePrefix, filter.Search, filter.Type, filter.Mode, filter.MaxPrice, filter.Caution, filter.Page, filter.Limit)
}
