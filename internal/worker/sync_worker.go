// Package worker exports stored entries to the backup spreadsheet.
package worker

import (
	"context"
	"fmt"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/log"
	"kharcha/internal/sheets"
	"kharcha/internal/storage"
)

// SyncWorker copies entries from SQLite to the spreadsheet. It reacts to
// queue messages and sweeps pending rows periodically so a lost message
// never strands an entry.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheets    sheets.EntryWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sheets sheets.EntryWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single entry sync message from the queue.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	logger := log.FromContext(ctx)
	logger.InfoContext(ctx, "Processing sync message", log.FieldEntryID, msg.ID)

	entry, err := w.storage.GetEntry(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}

	if err := w.syncEntryToSheets(ctx, entry.ID, entry); err != nil {
		return fmt.Errorf("sync entry to sheets: %w", err)
	}

	return nil
}

// ProcessPendingEntries sweeps entries that never got a queue message.
func (w *SyncWorker) ProcessPendingEntries(ctx context.Context) error {
	logger := log.FromContext(ctx)

	pending, err := w.storage.GetPendingSyncEntries(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending entries: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	logger.InfoContext(ctx, "Processing pending entries", log.FieldEntryCount, len(pending))

	for _, p := range pending {
		entry, err := w.storage.GetEntry(ctx, p.ID)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to get entry", log.FieldEntryID, p.ID, log.FieldError, err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				logger.ErrorContext(ctx, "Failed to mark sync error", log.FieldEntryID, p.ID, log.FieldError, err)
			}
			continue
		}

		if err := w.syncEntryToSheets(ctx, p.ID, entry); err != nil {
			logger.ErrorContext(ctx, "Failed to sync entry", log.FieldEntryID, p.ID, log.FieldError, err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog once at worker start with a
// larger batch, recovering from downtime or missed messages.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	logger := log.FromContext(ctx)

	pending, err := w.storage.GetPendingSyncEntries(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending entries for startup check: %w", err)
	}

	if len(pending) == 0 {
		logger.InfoContext(ctx, "No pending entries found on startup")
		return nil
	}

	logger.InfoContext(ctx, "Found pending entries on startup", log.FieldEntryCount, len(pending))

	synced := 0
	failed := 0
	for _, p := range pending {
		entry, err := w.storage.GetEntry(ctx, p.ID)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to get entry for startup sync",
				log.FieldEntryID, p.ID, log.FieldError, err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				logger.ErrorContext(ctx, "Failed to mark sync error", log.FieldEntryID, p.ID, log.FieldError, err)
			}
			failed++
			continue
		}

		if err := w.syncEntryToSheets(ctx, p.ID, entry); err != nil {
			logger.ErrorContext(ctx, "Failed to sync entry during startup",
				log.FieldEntryID, p.ID, log.FieldError, err)
			failed++
			continue
		}
		synced++
	}

	logger.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)

	return nil
}

func (w *SyncWorker) syncEntryToSheets(ctx context.Context, id string, entry core.Entry) error {
	logger := log.FromContext(ctx)

	ref, err := w.sheets.Append(ctx, entry)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			logger.ErrorContext(ctx, "Failed to mark sync error", log.FieldEntryID, id, log.FieldError, markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The row is already on the sheet; the sweep will retry the flag.
		logger.ErrorContext(ctx, "Failed to mark as synced", log.FieldEntryID, id, log.FieldError, err)
	}

	logger.InfoContext(ctx, "Synced entry", log.FieldEntryID, id, log.FieldSheetsRef, ref)

	return nil
}
