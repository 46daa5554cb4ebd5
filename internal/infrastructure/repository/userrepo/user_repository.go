package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"pinshare/internal/domain/user"
	"pinshare/internal/infrastructure/database/entities"
	"pinshare/internal/utils/platformerrors"
)

type UserGormRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*UserGormRepository)(nil)

func NewUserGormRepository(db *gorm.DB) user.Repository {
	return &UserGormRepository{db: db}
}

func (repo *UserGormRepository) Create(ctx context.Context, usr *user.User) (*user.User, error) {
	entity := entities.User{
		Username:     usr.Username,
		Email:        usr.Email,
		PasswordHash: usr.PasswordHash,
	}
	if err := repo.db.WithContext(ctx).Create(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				"user with this email or username already exists",
				err,
				"4c1fb0a7-e582-49d3-b6c8-70a5f2e91d36",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create user",
			err,
			"d85a2e31-96f0-4c7b-8d14-3b9ce60f7a52",
		)
	}
	return mapUser(entity), nil
}

func (repo *UserGormRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var entity entities.User
	err := repo.db.WithContext(ctx).Where("email = ?", email).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find user by email",
			err,
			"7e94d2c6-01b8-4f5a-9c37-e52a80d61f94",
		)
	}
	return mapUser(entity), nil
}

func (repo *UserGormRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var entity entities.User
	err := repo.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find user by ID",
			err,
			"b03c7f19-d654-48e2-a9b0-1f6d25c84e07",
		)
	}
	return mapUser(entity), nil
}

func (repo *UserGormRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to check for existing user",
			err,
			"28e6f5a0-7c93-41d8-b2e4-95d107c83f6b",
		)
	}
	return count > 0, nil
}

func mapUser(entity entities.User) *user.User {
	return &user.User{
		ID:           entity.ID,
		Username:     entity.Username,
		Email:        entity.Email,
		PasswordHash: entity.PasswordHash,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}
