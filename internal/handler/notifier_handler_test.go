package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uad-deukouway/housing-api/internal/models"
	"github.com/uad-deukouway/housing-api/internal/service"
	"github.com/uad-deukouway/housing-api/pkg/config"
	"github.com/uad-deukouway/housing-api/pkg/mailer"
)

type emailSourceStub struct {
	emails []string
}

func (s *emailSourceStub) ListEmails(ctx context.Context) ([]string, error) {
	return s.emails, nil
}

type listingSourceStub struct {
	listing *models.Listing
}

func (s *listingSourceStub) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	if s.listing == nil {
		return nil, sql.ErrNoRows
	}
	return s.listing, nil
}

type senderStub struct {
	batches []mailer.Batch
}

func (s *senderStub) Name() string { return "stub" }

func (s *senderStub) Send(ctx context.Context, batch mailer.Batch) error {
	s.batches = append(s.batches, batch)
	return nil
}

func newNotifierHandler(listing *models.Listing, sender *senderStub) *NotifierHandler {
	svc := service.NewNotifierService(
		&emailSourceStub{emails: []string{"a@example.com", "b@example.com"}},
		&listingSourceStub{listing: listing},
		sender, nil, zap.NewNop(), config.NotifyConfig{BatchSize: 40})
	return NewNotifierHandler(svc)
}

func TestNotifyWithoutBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sender := &senderStub{}
	handler := newNotifierHandler(nil, sender)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/api/admin/notify-users", nil)
	require.NoError(t, err)
	c.Request = req

	handler.Notify(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sender.batches, 1)
	assert.Contains(t, sender.batches[0].HTML, "New accommodation listings")
}

func TestNotifyEmptyObjectBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sender := &senderStub{}
	handler := newNotifierHandler(nil, sender)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/admin/notify-users", map[string]string{})

	handler.Notify(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sender.batches, 1)
	assert.Contains(t, sender.batches[0].HTML, "New accommodation listings")
}

func TestNotifyWithListing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sender := &senderStub{}
	listing := &models.Listing{ID: "l1", Title: "Studio downtown", Type: models.ListingTypeApartment, Mode: models.ListingModeClassic, PriceType: models.PriceTypeTotal}
	handler := newNotifierHandler(listing, sender)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/admin/notify-users", map[string]string{"listingId": "l1"})

	handler.Notify(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sender.batches, 1)
	assert.Contains(t, sender.batches[0].HTML, "Studio downtown")
}

func TestNotifyUnknownListing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sender := &senderStub{}
	handler := newNotifierHandler(nil, sender)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/admin/notify-users", map[string]string{"listingId": "missing"})

	handler.Notify(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, sender.batches)
}
