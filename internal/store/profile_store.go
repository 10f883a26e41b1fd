package store

import (
	"context"

	"proclog/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileStore struct{ db *gorm.DB }

func (s *Store) Profiles() *ProfileStore { return &ProfileStore{db: s.DB} }

func (p *ProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	if err := p.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (p *ProfileStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []domain.Profile
	if err := p.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert writes the free-text profile attributes keyed on the identity
// subject. Role is intentionally not in the update set: it only changes
// through the initial insert default or operator action.
func (p *ProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"full_name":      profile.FullName,
				"medical_id":     profile.MedicalID,
				"specialization": profile.Specialization,
				"hospital":       profile.Hospital,
				"updated_at":     profile.UpdatedAt,
			}),
		}).
		Create(profile).Error
}
