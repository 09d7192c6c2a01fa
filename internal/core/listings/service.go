// Package listings implements the marketplace search and publish flows on top
// of the store: coarse SQL retrieval, strict attribute filtering, cursor
// pagination, and the audit trail around listing writes.
package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Paladinnu/paladinspalace/internal/core"
	"github.com/Paladinnu/paladinspalace/internal/core/search"
)

// Storage is the persistence surface the service needs.
type Storage interface {
	SearchListings(ctx context.Context, f core.ListingFilter) ([]core.Listing, error)
	CreateListing(ctx context.Context, l *core.Listing) error
	GetListing(ctx context.Context, id string) (*core.Listing, error)
	DeleteListing(ctx context.Context, id string) (bool, error)
	InsertAuditEvent(ctx context.Context, e *core.AuditEvent) error
	QueryAuditEvents(ctx context.Context, f core.AuditFilter) ([]core.AuditEvent, error)
}

// Service coordinates listing reads and writes.
type Service struct {
	storage Storage
	logger  *zap.Logger
}

// NewService creates a listing service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: storage, logger: logger}
}

// Search returns one page of listings. The store over-fetches by one row in
// coarse sort order; the strict attribute filter then drops rows the SQL
// predicate admitted too eagerly. A page that shrinks below the limit is not
// topped up, so pages can run short without being final. NextCursor is set
// only when a row beyond the page survived filtering.
func (s *Service) Search(ctx context.Context, f core.ListingFilter) (core.ListingPage, error) {
	limit := f.ClampedLimit()

	rows, err := s.storage.SearchListings(ctx, f)
	if err != nil {
		return core.ListingPage{}, err
	}

	rows = applyStrictFilters(f, rows)

	page := core.ListingPage{Items: rows}
	if len(rows) > limit {
		next := rows[limit].ID
		page.Items = rows[:limit]
		page.NextCursor = &next
	}
	if page.Items == nil {
		page.Items = []core.Listing{}
	}
	return page, nil
}

// Get fetches one listing, returning (nil, nil) when it does not exist.
func (s *Service) Get(ctx context.Context, id string) (*core.Listing, error) {
	return s.storage.GetListing(ctx, id)
}

// CreateInput is a validated request to publish a listing.
type CreateInput struct {
	SellerID    string
	Title       string
	Description string
	Price       *int64
	Category    *core.Category
	Attributes  map[string]any
	IsGold      bool
}

// Create publishes a listing: assigns an ID, derives the search index from
// title and description, stores the attribute bag, and records an audit
// event. The audit write is best effort.
func (s *Service) Create(ctx context.Context, in CreateInput) (*core.Listing, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errors.New("listing title is required")
	}
	if in.SellerID == "" {
		return nil, errors.New("listing seller is required")
	}
	if in.Category != nil && !core.ValidCategory(*in.Category) {
		return nil, fmt.Errorf("unknown category: %s", *in.Category)
	}

	attrsJSON := "{}"
	if len(in.Attributes) > 0 {
		raw, err := json.Marshal(in.Attributes)
		if err != nil {
			return nil, fmt.Errorf("encode attributes: %w", err)
		}
		attrsJSON = string(raw)
	}

	l := &core.Listing{
		ID:             uuid.NewString(),
		SellerID:       in.SellerID,
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Price:          in.Price,
		Category:       in.Category,
		AttributesJSON: attrsJSON,
		SearchIndex:    search.IndexFor(title, in.Description),
		IsGold:         in.IsGold,
	}
	if err := s.storage.CreateListing(ctx, l); err != nil {
		return nil, err
	}
	if attrs, err := core.DecodeAttributes(l.Category, l.AttributesJSON); err == nil {
		l.Attributes = attrs
	}

	s.audit(ctx, in.SellerID, "listing.create", l.ID, l.Title)
	return l, nil
}

// Delete removes a listing on behalf of an actor, reporting whether it
// existed.
func (s *Service) Delete(ctx context.Context, id, actorID string) (bool, error) {
	deleted, err := s.storage.DeleteListing(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	s.audit(ctx, actorID, "listing.delete", id, "")
	return true, nil
}

// AuditTrail returns a page of audit events, newest first.
func (s *Service) AuditTrail(ctx context.Context, f core.AuditFilter) (core.AuditPage, error) {
	limit := f.ClampedLimit()

	events, err := s.storage.QueryAuditEvents(ctx, f)
	if err != nil {
		return core.AuditPage{}, err
	}

	page := core.AuditPage{Items: events}
	if len(events) > limit {
		next := events[limit].ID
		page.Items = events[:limit]
		page.NextCursor = &next
	}
	if page.Items == nil {
		page.Items = []core.AuditEvent{}
	}
	return page, nil
}

func (s *Service) audit(ctx context.Context, userID, action, entityID, detail string) {
	e := &core.AuditEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		Action:     action,
		EntityType: "listing",
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := s.storage.InsertAuditEvent(ctx, e); err != nil {
		s.logger.Warn("audit event dropped",
			zap.String("action", action),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}
