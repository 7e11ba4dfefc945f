// Package services orchestrates the core ledger logic across storage and
// the message queue.
package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/log"
	"kharcha/internal/storage"
)

// SyncPublisher hands entry IDs to the export queue.
type SyncPublisher interface {
	PublishEntrySync(ctx context.Context, id string) error
}

// TrackerService records entries and serves filtered views of a user's
// ledger.
type TrackerService struct {
	storage   *storage.SQLiteRepository
	publisher SyncPublisher
}

func NewTrackerService(storage *storage.SQLiteRepository, publisher SyncPublisher) *TrackerService {
	return &TrackerService{
		storage:   storage,
		publisher: publisher,
	}
}

// SubmitEntry normalizes one submission into entries and appends them to the
// owner's ledger. Publish failures are logged but never fail the request;
// the worker's pending sweep picks those entries up later.
func (s *TrackerService) SubmitEntry(ctx context.Context, ownerID string, raw core.Submission) ([]core.Entry, error) {
	entries, err := core.Normalize(raw, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	stored, err := s.storage.AppendEntries(ctx, ownerID, entries)
	if err != nil {
		return nil, fmt.Errorf("append entries: %w", err)
	}

	logger := log.FromContext(ctx)
	for _, e := range stored {
		if err := s.publishSyncMessage(ctx, e.ID); err != nil {
			logger.ErrorContext(ctx, "Failed to publish sync message",
				log.FieldEntryID, e.ID, log.FieldError, err)
		}
	}

	return stored, nil
}

// ListEntries returns the owner's full ledger, newest applicable date first.
// Entries without any date sort last, ties keep insertion order.
func (s *TrackerService) ListEntries(ctx context.Context, ownerID string) ([]core.Entry, error) {
	entries, err := s.storage.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di, iok := entries[i].ApplicableDate()
		dj, jok := entries[j].ApplicableDate()
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}
		return di.After(dj.Time)
	})

	return entries, nil
}

// Summary selects the owner's entries inside the window described by spec
// and aggregates them into totals and a bucketed series.
func (s *TrackerService) Summary(ctx context.Context, ownerID string, spec core.FilterSpec) (core.Totals, core.BucketedSeries, error) {
	entries, err := s.storage.ListByOwner(ctx, ownerID)
	if err != nil {
		return core.Totals{}, nil, fmt.Errorf("list entries: %w", err)
	}

	selected := core.Select(entries, spec)
	return core.Sum(selected), core.Buckets(selected, spec), nil
}

func (s *TrackerService) publishSyncMessage(ctx context.Context, id string) error {
	if s.publisher == nil {
		log.FromContext(ctx).WarnContext(ctx, "Sync publisher not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishEntrySync(ctx, id)
}

// Close releases the storage handle. The publisher is owned by the caller.
func (s *TrackerService) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
