package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/user"
	"github.com/mariustrier/TimeTrack-sub004/internal/tenant"
	"github.com/mariustrier/TimeTrack-sub004/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, companyID, userID string) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

// Upsert inserts the membership or refreshes its mutable fields.
func (r *UserRepository) Upsert(ctx context.Context, u *user.User) error {
	row := user.ToDataModel(u)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"company_id", "email", "name", "role", "is_active", "updated_at"}),
	}).Create(row).Error
}
