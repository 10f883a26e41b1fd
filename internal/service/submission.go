package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"proclog/internal/actor"
	"proclog/internal/domain"
	"proclog/internal/dto"
	"proclog/internal/policy"

	"github.com/google/uuid"
)

// Submit validates a draft and persists it as a pending entry owned by the
// caller. Creation is a single insert; if the write fails, no entry exists
// and the storage error surfaces to the caller unretried.
func (s *Service) Submit(ctx context.Context, a *actor.Actor, req dto.SubmitEntryRequest) (*domain.LogEntry, error) {
	if !policy.Can(a, policy.ActionSubmitEntry, nil) {
		return nil, fmt.Errorf("%w: submit entry", domain.ErrForbidden)
	}

	if strings.TrimSpace(req.PatientID) == "" {
		return nil, fmt.Errorf("%w: patientId is required", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Procedure) == "" {
		return nil, fmt.Errorf("%w: procedure is required", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Diagnosis) == "" {
		return nil, fmt.Errorf("%w: diagnosis is required", domain.ErrValidation)
	}

	entry := &domain.LogEntry{
		ID:        uuid.New(),
		UserID:    a.ID,
		PatientID: req.PatientID,
		Procedure: req.Procedure,
		Diagnosis: req.Diagnosis,
		Notes:     req.Notes,
		Images:    domain.ImageRefs(req.Images),
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Entries().Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
