package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uad-deukouway/housing-api/internal/models"
)

func listingOwnerRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "title", "description", "type", "mode", "price", "price_type", "location",
		"available_spots", "total_spots", "contact_phone", "caution", "admin_validated", "status",
		"views", "validated_by", "validation_date", "created_at",
		"owner_first_name", "owner_last_name", "owner_email", "owner_phone", "owner_role", "owner_verified", "owner_created_at",
	}).AddRow(
		"l1", "u1", "Room near campus", "Bright room", "room", "classic", 25000, "total", "Abomey-Calavi",
		nil, nil, "+22991000000", 0, true, "active",
		3, nil, nil, now,
		"Ada", "Lovelace", "ada@example.com", "+22990000000", "landlord", true, now,
	)
}

func TestListPublicFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("l.status = 'active' AND l.admin_validated = TRUE AND (LOWER(l.title) LIKE $1 OR LOWER(l.description) LIKE $1 OR LOWER(l.location) LIKE $1) AND l.type = $2 AND l.price <= $3 AND l.caution = 0 ORDER BY l.created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("%campus%", "room", 30000).
		WillReturnRows(listingOwnerRows(now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM listings l WHERE")).
		WithArgs("%campus%", "room", 30000).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	listings, total, err := repo.ListPublic(context.Background(), models.ListingFilter{
		Search:   "Campus",
		Type:     "room",
		MaxPrice: 30000,
		Caution:  "no_caution",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, listings, 1)
	assert.Equal(t, "Room near campus", listings[0].Title)
	assert.Equal(t, "Ada", listings[0].OwnerFirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPublicIgnoresAllSentinel(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE l.status = 'active' AND l.admin_validated = TRUE ORDER BY l.created_at DESC")).
		WillReturnRows(listingOwnerRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, _, err := repo.ListPublic(context.Background(), models.ListingFilter{Type: "all", Mode: "all"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindDetailActiveOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("l.id = $1 AND l.status = 'active'")).
		WithArgs("l1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindDetail(context.Background(), "l1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	mock.ExpectExec("INSERT INTO listings").WillReturnResult(sqlmock.NewResult(1, 1))

	listing := &models.Listing{UserID: "u1", Title: "Room", Type: models.ListingTypeRoom, Mode: models.ListingModeClassic, Price: 20000, Status: models.ListingStatusActive}
	err := repo.Create(context.Background(), listing)
	require.NoError(t, err)
	assert.NotEmpty(t, listing.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetValidation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	at := time.Now().UTC()
	mock.ExpectExec("UPDATE listings SET admin_validated").
		WithArgs("l1", true, string(models.ListingStatusActive), "admin-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetValidation(context.Background(), "l1", true, models.ListingStatusActive, "admin-1", at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetValidationMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	mock.ExpectExec("UPDATE listings SET admin_validated").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetValidation(context.Background(), "missing", false, models.ListingStatusInactive, "admin-1", time.Now())
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementViews(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE listings SET views = views + 1 WHERE id = $1")).
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.IncrementViews(context.Background(), "l1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	mock.ExpectExec("DELETE FROM listings").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
