package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"proclog/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntryStore struct{ db *gorm.DB }

func (s *Store) Entries() *EntryStore { return &EntryStore{db: s.DB} }

func (e *EntryStore) Create(ctx context.Context, entry *domain.LogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := e.db.WithContext(ctx).Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: entry %s already exists", domain.ErrConflict, entry.ID)
		}
		return err
	}
	return nil
}

func (e *EntryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LogEntry, error) {
	var entry domain.LogEntry
	if err := e.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ListPending returns every pending entry, most recent submission first.
func (e *EntryStore) ListPending(ctx context.Context) ([]domain.LogEntry, error) {
	var entries []domain.LogEntry
	if err := e.db.WithContext(ctx).
		Where("status = ?", domain.StatusPending).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (e *EntryStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.LogEntry, error) {
	var entries []domain.LogEntry
	tx := e.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByStatus groups the user's entries by status.
func (e *EntryStore) CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.Status]int64, error) {
	var rows []struct {
		Status domain.Status
		Total  int64
	}
	if err := e.db.WithContext(ctx).
		Model(&domain.LogEntry{}).
		Select("status, count(*) AS total").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[domain.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// Decide is the single conditional write of the lifecycle: it moves one entry
// out of pending, stamping the deciding actor and time, only if the row is
// still pending at commit. RowsAffected == 0 means another decision won the
// race (or the id does not exist); the first committed decision stands.
func (e *EntryStore) Decide(ctx context.Context, id uuid.UUID, outcome domain.Status, reviewerID uuid.UUID, at time.Time) (int64, error) {
	tx := e.db.WithContext(ctx).
		Model(&domain.LogEntry{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":      outcome,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
		})
	return tx.RowsAffected, tx.Error
}
