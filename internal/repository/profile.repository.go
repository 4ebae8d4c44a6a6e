package repository

import (
	"context"
	"errors"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoAdminProfile  = errors.New("no admin profile exists")
)

type ProfileRepository struct {
	*pg.DB
}

func NewProfileRepository(db *pg.DB) *ProfileRepository {
	return &ProfileRepository{
		db,
	}
}

func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	entity := toProfileEntity(p)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toProfileModel(entity), nil
}

func (r *ProfileRepository) Get(ctx context.Context, id string) (*model.Profile, error) {
	var entity ProfileEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return toProfileModel(&entity), nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var entity ProfileEntity
	err := r.Read(ctx).WithContext(ctx).Where("email = ?", email).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return toProfileModel(&entity), nil
}

// FindAdmin returns the oldest admin profile, the fan-out target for
// new-inquiry bell notifications.
func (r *ProfileRepository) FindAdmin(ctx context.Context) (*model.Profile, error) {
	var entity ProfileEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("role = ?", model.RoleAdmin).
		Order("created_at ASC").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoAdminProfile
		}
		return nil, err
	}
	return toProfileModel(&entity), nil
}
