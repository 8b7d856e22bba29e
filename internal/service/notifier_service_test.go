package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uad-deukouway/housing-api/internal/models"
	"github.com/uad-deukouway/housing-api/pkg/config"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
	"github.com/uad-deukouway/housing-api/pkg/mailer"
)

type mockEmailSource struct {
	emails []string
}

func (m *mockEmailSource) ListEmails(ctx context.Context) ([]string, error) {
	return m.emails, nil
}

type mockListingSource struct {
	listing *models.Listing
	lookups int
}

func (m *mockListingSource) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	m.lookups++
	if m.listing == nil {
		return nil, sql.ErrNoRows
	}
	return m.listing, nil
}

type mockSender struct {
	batches  []mailer.Batch
	failOn   map[int]bool
	attempts int
}

func (m *mockSender) Name() string { return "mock" }

func (m *mockSender) Send(ctx context.Context, batch mailer.Batch) error {
	m.attempts++
	if m.failOn[m.attempts] {
		return errors.New("relay refused")
	}
	m.batches = append(m.batches, batch)
	return nil
}

func manyEmails(n int) []string {
	emails := make([]string, 0, n)
	for i := 0; i < n; i++ {
		emails = append(emails, fmt.Sprintf("user%03d@example.com", i))
	}
	return emails
}

func testListing() *models.Listing {
	return &models.Listing{ID: "l1", Title: "Room near campus", Description: "Bright", Type: models.ListingTypeRoom, Mode: models.ListingModeClassic, Price: 25000, PriceType: models.PriceTypeTotal, Location: "Calavi", ContactPhone: "+22991000000"}
}

func newNotifier(users *mockEmailSource, sender *mockSender, cfg config.NotifyConfig) *NotifierService {
	return NewNotifierService(users, &mockListingSource{listing: testListing()}, sender, nil, zap.NewNop(), cfg)
}

func TestBroadcastChunksInBatches(t *testing.T) {
	users := &mockEmailSource{emails: manyEmails(95)}
	sender := &mockSender{}
	svc := newNotifier(users, sender, config.NotifyConfig{BatchSize: 40})

	result, err := svc.Broadcast(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, 95, result.Recipients)
	assert.Equal(t, 3, result.Batches)
	assert.Equal(t, 3, result.SentBatches)
	assert.Zero(t, result.FailedBatches)

	require.Len(t, sender.batches, 3)
	assert.Len(t, sender.batches[0].To, 40)
	assert.Len(t, sender.batches[1].To, 40)
	assert.Len(t, sender.batches[2].To, 15)
	assert.False(t, sender.batches[0].UseBCC)
}

func TestBroadcastFailedBatchDoesNotStopOthers(t *testing.T) {
	users := &mockEmailSource{emails: manyEmails(100)}
	sender := &mockSender{failOn: map[int]bool{2: true}}
	svc := newNotifier(users, sender, config.NotifyConfig{BatchSize: 40})

	result, err := svc.Broadcast(context.Background(), "l1")
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.Batches)
	assert.Equal(t, 2, result.SentBatches)
	assert.Equal(t, 1, result.FailedBatches)
	assert.Len(t, sender.batches, 2)
}

func TestBroadcastDropsBlankAddresses(t *testing.T) {
	users := &mockEmailSource{emails: []string{"a@example.com", "", "  ", "b@example.com"}}
	sender := &mockSender{}
	svc := newNotifier(users, sender, config.NotifyConfig{BatchSize: 40})

	result, err := svc.Broadcast(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Recipients)
	require.Len(t, sender.batches, 1)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, sender.batches[0].To)
}

func TestBroadcastNoRecipients(t *testing.T) {
	users := &mockEmailSource{emails: []string{"", " "}}
	sender := &mockSender{}
	svc := newNotifier(users, sender, config.NotifyConfig{BatchSize: 40})

	_, err := svc.Broadcast(context.Background(), "l1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, sender.batches)
}

func TestBroadcastUnknownListing(t *testing.T) {
	svc := NewNotifierService(&mockEmailSource{emails: manyEmails(3)}, &mockListingSource{}, &mockSender{}, nil, zap.NewNop(), config.NotifyConfig{})

	_, err := svc.Broadcast(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBroadcastWithoutListingSendsGenericMail(t *testing.T) {
	users := &mockEmailSource{emails: manyEmails(3)}
	sender := &mockSender{}
	listings := &mockListingSource{}
	svc := NewNotifierService(users, listings, sender, nil, zap.NewNop(), config.NotifyConfig{BatchSize: 40, SiteURL: "https://housing.example.com"})

	result, err := svc.Broadcast(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Recipients)
	assert.Equal(t, 1, result.SentBatches)
	assert.Zero(t, listings.lookups)

	require.Len(t, sender.batches, 1)
	assert.Contains(t, sender.batches[0].HTML, "New accommodation listings")
	assert.Contains(t, sender.batches[0].HTML, "https://housing.example.com/listings")
}

func TestBroadcastBCCFlag(t *testing.T) {
	users := &mockEmailSource{emails: manyEmails(3)}
	sender := &mockSender{}
	svc := newNotifier(users, sender, config.NotifyConfig{BatchSize: 40, UseBCC: true})

	_, err := svc.Broadcast(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, sender.batches, 1)
	assert.True(t, sender.batches[0].UseBCC)
}

func TestBroadcastBodyMentionsListing(t *testing.T) {
	users := &mockEmailSource{emails: manyEmails(1)}
	sender := &mockSender{}
	svc := newNotifier(users, sender, config.NotifyConfig{BatchSize: 40, SiteURL: "https://housing.example.com"})

	_, err := svc.Broadcast(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, sender.batches, 1)
	assert.Contains(t, sender.batches[0].HTML, "Room near campus")
	assert.Contains(t, sender.batches[0].HTML, "https://housing.example.com/listings/l1")
}
