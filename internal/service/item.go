// Package service contains the business logic layer: validation, lifecycle
// rules, and orchestration across repositories. Services know nothing about
// HTTP and return domain errors for the handlers to translate.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/findnest/findnest/internal/apperror"
	"github.com/findnest/findnest/internal/lifecycle"
	"github.com/findnest/findnest/internal/model"
	"github.com/findnest/findnest/internal/repository"
)

const maxItemNameLength = 200

// ItemService handles the item lifecycle: creation, reads, updates, the
// claim transition, archival on delete, and the count summary.
type ItemService struct {
	items   repository.ItemRepository
	history repository.ItemHistoryRepository
	logger  *slog.Logger

	// now is injectable so tests get deterministic timestamps.
	now func() string
}

// NewItemService creates an ItemService over the given repositories.
func NewItemService(items repository.ItemRepository, history repository.ItemHistoryRepository, logger *slog.Logger) *ItemService {
	return &ItemService{
		items:   items,
		history: history,
		logger:  logger,
		now:     func() string { return time.Now().UTC().Format(time.RFC3339) },
	}
}

// Create validates and stores a new found-item record. Whatever status the
// caller supplied, the stored record starts Available with both timestamps
// set and optional fields normalized.
func (s *ItemService) Create(ctx context.Context, draft model.Item) (*model.Item, error) {
	draft.Item = strings.TrimSpace(draft.Item)
	if draft.Item == "" {
		return nil, apperror.ValidationFailed("item", "item name is required")
	}
	if len(draft.Item) > maxItemNameLength {
		return nil, apperror.ValidationFailed("item",
			fmt.Sprintf("item name must be %d characters or less", maxItemNameLength))
	}

	lifecycle.NormalizeNew(&draft, s.now())

	if err := s.items.Create(ctx, &draft); err != nil {
		s.logger.Error("failed to create item",
			slog.String("item", draft.Item),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating item: %w", err)
	}

	s.logger.Info("item created",
		slog.String("id", draft.ID),
		slog.String("item", draft.Item),
	)
	return &draft, nil
}

// Get retrieves an item by id. A missing id is a NotFound outcome, not a
// fault.
func (s *ItemService) Get(ctx context.Context, id string) (*model.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "item ID is required")
	}
	return s.items.GetByID(ctx, id)
}

// List returns all active items.
func (s *ItemService) List(ctx context.Context) ([]model.Item, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		s.logger.Error("failed to list items", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// Replace overwrites the record at id with draft, preserving any field the
// caller left blank as well as the stored lifecycle state. Reports NotFound
// and writes nothing when no record exists at id.
func (s *ItemService) Replace(ctx context.Context, id string, draft model.Item) (*model.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "item ID is required")
	}

	stored, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lifecycle.MergeForReplace(stored, &draft, s.now())

	if err := s.items.Update(ctx, &draft); err != nil {
		s.logger.Error("failed to replace item",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("replacing item %s: %w", id, err)
	}

	s.logger.Info("item replaced", slog.String("id", id))
	return &draft, nil
}

// Patch applies a partial update. When the patch leaves the item with a
// non-empty claimant and it was not already Claimed, the item transitions to
// Claimed and the claim date is stamped; that transition happens at most
// once per record and never reverses.
//
// The read-modify-write here is not atomic: a concurrent write to the same
// id between the read and the write is resolved last-write-wins by the
// store. Accepted tradeoff, no version check.
func (s *ItemService) Patch(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "item ID is required")
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasClaimed := item.Status.Is(model.StatusClaimed)
	lifecycle.ApplyPatch(item, patch, s.now())

	if err := s.items.Update(ctx, item); err != nil {
		s.logger.Error("failed to patch item",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("patching item %s: %w", id, err)
	}

	if !wasClaimed && item.Status.Is(model.StatusClaimed) {
		s.logger.Info("item claimed",
			slog.String("id", id),
			slog.String("claimant", item.ClaimantName),
		)
	}
	return item, nil
}

// UpdateTurnover records a custody hand-off for the item at id.
func (s *ItemService) UpdateTurnover(ctx context.Context, id, turnoverDate, turnoverPerson, department string) (*model.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "item ID is required")
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lifecycle.ApplyTurnover(item, turnoverDate, turnoverPerson, department, s.now())

	if err := s.items.Update(ctx, item); err != nil {
		s.logger.Error("failed to update turnover",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating turnover for item %s: %w", id, err)
	}

	s.logger.Info("item turnover recorded",
		slog.String("id", id),
		slog.String("turnoverPerson", item.TurnoverPerson),
	)
	return item, nil
}

// Delete archives the record and then removes it from the active
// collection, in that order: a crash between the two leaves a duplicate in
// history rather than a lost record. Deleting a missing id is a no-op:
// idempotent, no history entry created.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "item ID is required")
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return err
	}

	historyID, err := s.history.Archive(ctx, item)
	if err != nil {
		// Archive failed: abort so the record stays in the active
		// collection.
		s.logger.Error("failed to archive item before delete",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("archiving item %s: %w", id, err)
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}

	s.logger.Info("item deleted",
		slog.String("id", id),
		slog.String("historyId", historyID),
	)
	return nil
}

// HistoryList returns every archived item.
func (s *ItemService) HistoryList(ctx context.Context) ([]model.Item, error) {
	items, err := s.history.List(ctx)
	if err != nil {
		s.logger.Error("failed to list item history", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing item history: %w", err)
	}
	return items, nil
}

// HistoryGet returns the archived item at id.
func (s *ItemService) HistoryGet(ctx context.Context, id string) (*model.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "history item ID is required")
	}
	return s.history.GetByID(ctx, id)
}

// CountSummary classifies the active collection by status over a single read
// snapshot. Status matching is case-insensitive to tolerate legacy records.
// Concurrent writes during the scan may skew the counts by the number of
// writes in flight; this is a point-in-time approximation, not a
// transactional count.
func (s *ItemService) CountSummary(ctx context.Context) (*model.ItemCounts, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		s.logger.Error("failed to count items", slog.String("error", err.Error()))
		return nil, fmt.Errorf("counting items: %w", err)
	}

	counts := &model.ItemCounts{TotalCount: int64(len(items))}
	for _, item := range items {
		switch {
		case item.Status.Is(model.StatusAvailable):
			counts.AvailableCount++
		case item.Status.Is(model.StatusClaimed):
			counts.ClaimedCount++
		}
	}
	return counts, nil
}
