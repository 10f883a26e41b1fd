package service

import (
	"context"
	"errors"
	"fmt"

	"proclog/internal/actor"
	"proclog/internal/domain"
	"proclog/internal/dto"
	"proclog/internal/policy"
	"proclog/internal/store"

	"github.com/google/uuid"
)

// ListPending returns a snapshot of every entry awaiting decision, newest
// submission first, each joined with its submitter's display attributes.
func (s *Service) ListPending(ctx context.Context, a *actor.Actor) ([]dto.PendingEntry, error) {
	if !policy.Can(a, policy.ActionViewPendingQueue, nil) {
		return nil, fmt.Errorf("%w: view pending queue", domain.ErrForbidden)
	}

	entries, err := s.store.Entries().ListPending(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(entries))
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.UserID]; ok {
			continue
		}
		seen[e.UserID] = struct{}{}
		ids = append(ids, e.UserID)
	}
	profiles, err := s.store.Profiles().ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	out := make([]dto.PendingEntry, 0, len(entries))
	for _, e := range entries {
		p := byID[e.UserID] // zero value when the submitter has no profile yet
		out = append(out, dto.PendingEntry{
			Entry:     e,
			Submitter: dto.Submitter{FullName: p.FullName, MedicalID: p.MedicalID},
		})
	}
	return out, nil
}

// GetEntry loads one entry for detail display. The owner may always see it;
// reviewers and admins may see any entry.
func (s *Service) GetEntry(ctx context.Context, a *actor.Actor, entryID uuid.UUID) (*domain.LogEntry, error) {
	entry, err := s.store.Entries().GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: entry %s", domain.ErrNotFound, entryID)
		}
		return nil, err
	}
	if !policy.Can(a, policy.ActionViewEntryDetail, entry) {
		return nil, fmt.Errorf("%w: view entry", domain.ErrForbidden)
	}
	return entry, nil
}
