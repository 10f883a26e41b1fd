package service

import (
	"context"
	"fmt"

	"proclog/internal/actor"
	"proclog/internal/domain"
	"proclog/internal/dto"
)

const (
	defaultOwnLimit = 10
	maxOwnLimit     = 100
)

// ListOwn returns the caller's most recent entries. The query is scoped to
// the actor's own id, so ownership holds by construction; only an
// unauthenticated caller is refused.
func (s *Service) ListOwn(ctx context.Context, a *actor.Actor, limit int) ([]domain.LogEntry, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: view own entries", domain.ErrForbidden)
	}
	if limit <= 0 {
		limit = defaultOwnLimit
	}
	if limit > maxOwnLimit {
		limit = maxOwnLimit
	}
	return s.store.Entries().ListByUser(ctx, a.ID, limit)
}

// Stats counts the caller's entries per lifecycle state.
func (s *Service) Stats(ctx context.Context, a *actor.Actor) (dto.EntryStats, error) {
	if a == nil {
		return dto.EntryStats{}, fmt.Errorf("%w: view own entries", domain.ErrForbidden)
	}
	counts, err := s.store.Entries().CountByStatus(ctx, a.ID)
	if err != nil {
		return dto.EntryStats{}, err
	}
	stats := dto.EntryStats{
		Pending:  counts[domain.StatusPending],
		Approved: counts[domain.StatusApproved],
		Rejected: counts[domain.StatusRejected],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats, nil
}
