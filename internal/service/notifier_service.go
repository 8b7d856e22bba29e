package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/uad-deukouway/housing-api/internal/models"
	"github.com/uad-deukouway/housing-api/pkg/config"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
	"github.com/uad-deukouway/housing-api/pkg/mailer"
)

type notifierUserRepository interface {
	ListEmails(ctx context.Context) ([]string, error)
}

type notifierListingRepository interface {
	FindByID(ctx context.Context, id string) (*models.Listing, error)
}

// BroadcastResult summarises a bulk notification run.
type BroadcastResult struct {
	Recipients    int `json:"recipients"`
	Batches       int `json:"batches"`
	SentBatches   int `json:"sentBatches"`
	FailedBatches int `json:"failedBatches"`
}

// NotifierService emails the user base about a newly published listing.
type NotifierService struct {
	users    notifierUserRepository
	listings notifierListingRepository
	sender   mailer.Sender
	metrics  *MetricsService
	logger   *zap.Logger
	config   config.NotifyConfig
}

// NewNotifierService constructs a NotifierService instance.
func NewNotifierService(users notifierUserRepository, listings notifierListingRepository, sender mailer.Sender, metrics *MetricsService, logger *zap.Logger, cfg config.NotifyConfig) *NotifierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 40
	}
	if cfg.Subject == "" {
		cfg.Subject = "New accommodation listing published"
	}
	return &NotifierService{
		users:    users,
		listings: listings,
		sender:   sender,
		metrics:  metrics,
		logger:   logger,
		config:   cfg,
	}
}

// Broadcast mails every account, in fixed-size batches. With a listing id
// the mail carries that listing's details; without one it is a generic
// new-listings announcement. A failed batch does not stop the remaining
// ones; the result counts both outcomes and the returned error is non-nil
// when at least one batch failed.
func (s *NotifierService) Broadcast(ctx context.Context, listingID string) (*BroadcastResult, error) {
	var listing *models.Listing
	if listingID != "" {
		var err error
		listing, err = s.listings.FindByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "listing not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch listing")
		}
	}

	all, err := s.users.ListEmails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recipients")
	}

	emails := all[:0]
	for _, email := range all {
		if strings.TrimSpace(email) != "" {
			emails = append(emails, email)
		}
	}

	if len(emails) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no recipients to notify")
	}
	result := &BroadcastResult{Recipients: len(emails)}

	body := s.renderBody(listing)

	for start := 0; start < len(emails); start += s.config.BatchSize {
		end := start + s.config.BatchSize
		if end > len(emails) {
			end = len(emails)
		}
		result.Batches++

		batch := mailer.Batch{
			To:      emails[start:end],
			Subject: s.config.Subject,
			HTML:    body,
			UseBCC:  s.config.UseBCC,
		}

		if err := s.sender.Send(ctx, batch); err != nil {
			result.FailedBatches++
			if s.metrics != nil {
				s.metrics.RecordBroadcastBatch(false)
			}
			s.logger.Error("notification batch failed",
				zap.String("listing_id", listingID),
				zap.Int("batch", result.Batches),
				zap.Int("recipients", end-start),
				zap.Error(err))
			continue
		}

		result.SentBatches++
		if s.metrics != nil {
			s.metrics.RecordBroadcastBatch(true)
		}
	}

	s.logger.Info("listing broadcast finished",
		zap.String("listing_id", listingID),
		zap.Int("recipients", result.Recipients),
		zap.Int("sent_batches", result.SentBatches),
		zap.Int("failed_batches", result.FailedBatches))

	if result.FailedBatches > 0 {
		return result, appErrors.Clone(appErrors.ErrInternal,
			fmt.Sprintf("%d of %d notification batches failed", result.FailedBatches, result.Batches))
	}
	return result, nil
}

func (s *NotifierService) renderBody(listing *models.Listing) string {
	var b strings.Builder
	if listing == nil {
		b.WriteString("<h2>New accommodation listings</h2>")
		b.WriteString("<p>New rooms and apartments have been published. Log in to browse the latest offers.</p>")
		if s.config.SiteURL != "" {
			b.WriteString(fmt.Sprintf(`<p><a href="%s/listings">Browse listings</a></p>`, s.config.SiteURL))
		}
		return b.String()
	}
	b.WriteString("<h2>" + html.EscapeString(listing.Title) + "</h2>")
	b.WriteString("<p>" + html.EscapeString(listing.Description) + "</p>")
	b.WriteString("<ul>")
	b.WriteString(fmt.Sprintf("<li>Type: %s (%s)</li>", listing.Type, listing.Mode))
	b.WriteString(fmt.Sprintf("<li>Price: %d FCFA (%s)</li>", listing.Price, listing.PriceType))
	b.WriteString("<li>Location: " + html.EscapeString(listing.Location) + "</li>")
	b.WriteString("<li>Contact: " + html.EscapeString(listing.ContactPhone) + "</li>")
	b.WriteString("</ul>")
	if s.config.SiteURL != "" {
		b.WriteString(fmt.Sprintf(`<p><a href="%s/listings/%s">View the listing</a></p>`, s.config.SiteURL, listing.ID))
	}
	return b.String()
}
