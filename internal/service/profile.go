package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"proclog/internal/actor"
	"proclog/internal/domain"
	"proclog/internal/dto"
	"proclog/internal/store"
)

// GetProfile returns the caller's own profile.
func (s *Service) GetProfile(ctx context.Context, a *actor.Actor) (*domain.Profile, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: view profile", domain.ErrForbidden)
	}
	profile, err := s.store.Profiles().GetByID(ctx, a.ID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: profile %s", domain.ErrNotFound, a.ID)
		}
		return nil, err
	}
	return profile, nil
}

// UpsertProfile creates or updates the caller's own profile. Only the
// free-text attributes are writable here; role and supervisor assignments
// are an operator concern and never come in through this surface.
func (s *Service) UpsertProfile(ctx context.Context, a *actor.Actor, req dto.UpsertProfileRequest) (*domain.Profile, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: edit profile", domain.ErrForbidden)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("%w: fullName is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	profile := &domain.Profile{
		ID:             a.ID,
		FullName:       req.FullName,
		MedicalID:      req.MedicalID,
		Specialization: req.Specialization,
		Hospital:       req.Hospital,
		Role:           domain.RolePractitioner, // insert default only; updates never touch role
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Profiles().Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return s.store.Profiles().GetByID(ctx, profile.ID)
}
