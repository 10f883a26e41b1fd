package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"proclog/internal/actor"
	"proclog/internal/domain"
	"proclog/internal/policy"
	"proclog/internal/store"

	"github.com/google/uuid"
)

// Decide applies the single lifecycle transition: pending -> approved or
// rejected, stamping the deciding actor and time. The write is conditional
// on the row still being pending, so when two reviewers race, the first
// committed decision wins and the loser gets ErrInvalidTransition.
func (s *Service) Decide(ctx context.Context, a *actor.Actor, entryID uuid.UUID, outcome string) (*domain.LogEntry, error) {
	oc, ok := domain.ParseOutcome(outcome)
	if !ok {
		return nil, fmt.Errorf("%w: outcome must be approved or rejected", domain.ErrValidation)
	}

	entry, err := s.store.Entries().GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: entry %s", domain.ErrNotFound, entryID)
		}
		return nil, err
	}

	if !policy.Can(a, policy.ActionDecide, entry) {
		// missing role is Forbidden; right role on a decided entry is a
		// transition error
		if policy.Can(a, policy.ActionViewPendingQueue, nil) {
			return nil, fmt.Errorf("%w: entry already %s", domain.ErrInvalidTransition, entry.Status)
		}
		return nil, fmt.Errorf("%w: decide entry", domain.ErrForbidden)
	}

	rows, err := s.store.Entries().Decide(ctx, entryID, oc, a.ID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Another decision committed between our read and this write.
		return nil, fmt.Errorf("%w: entry no longer pending", domain.ErrInvalidTransition)
	}

	updated, err := s.store.Entries().GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: entry %s", domain.ErrNotFound, entryID)
		}
		return nil, err
	}
	return updated, nil
}
