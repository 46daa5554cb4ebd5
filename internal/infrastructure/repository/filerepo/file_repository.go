package filerepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pinshare/internal/domain/file"
	"pinshare/internal/infrastructure/database/entities"
	"pinshare/internal/utils/platformerrors"
)

type FileGormRepository struct {
	db *gorm.DB
}

var _ file.Repository = (*FileGormRepository)(nil)

func NewFileGormRepository(db *gorm.DB) file.Repository {
	return &FileGormRepository{db: db}
}

func (repo *FileGormRepository) Create(ctx context.Context, rec *file.FileRecord) (*file.FileRecord, error) {
	entity := entities.FileRecord{
		Name:         rec.Name,
		Size:         rec.Size,
		OriginalSize: rec.OriginalSize,
		Compressed:   rec.Compressed,
		MediaType:    rec.MediaType,
		CID:          rec.CID,
		OwnerID:      rec.OwnerID,
		IsPublic:     rec.IsPublic,
		Description:  rec.Description,
	}
	if err := repo.db.WithContext(ctx).Create(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				"content with this address already exists",
				err,
				"63a9e8d1-4b70-4f25-8c3d-f1e06b72a954",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create file record",
			err,
			"a7f31d82-5e96-4c0b-9d27-048c6e51b3f8",
		)
	}
	return repo.loadByID(ctx, entity.ID)
}

func (repo *FileGormRepository) FindByCID(ctx context.Context, cid string) (*file.FileRecord, error) {
	var entity entities.FileRecord
	err := repo.db.WithContext(ctx).
		Preload("Owner").
		Where("cid = ?", cid).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find file by content address",
			err,
			"f0c62b95-8d17-4a43-b6e0-29d5a71f84c3",
		)
	}
	return repo.mapRecord(ctx, entity)
}

func (repo *FileGormRepository) ListForUser(ctx context.Context, userID uint) ([]*file.FileRecord, error) {
	var rows []entities.FileRecord
	err := repo.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ? OR id IN (?)",
			userID,
			repo.db.Model(&entities.FileAccess{}).Select("file_id").Where("user_id = ?", userID),
		).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list files for user",
			err,
			"91d84f06-2c5b-4e79-a1d3-68f0b52c97ae",
		)
	}
	return repo.mapRecords(ctx, rows)
}

func (repo *FileGormRepository) ListPublic(ctx context.Context, limit int) ([]*file.FileRecord, error) {
	var rows []entities.FileRecord
	err := repo.db.WithContext(ctx).
		Preload("Owner").
		Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list public files",
			err,
			"5b20c7e4-9a38-4d61-bf85-d13e76a09c42",
		)
	}
	return repo.mapRecords(ctx, rows)
}

func (repo *FileGormRepository) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*file.FileRecord, error) {
	var rows []entities.FileRecord
	err := repo.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list expired files",
			err,
			"ce47a1f9-6d02-4b58-9e34-71b0d8f52c66",
		)
	}
	return repo.mapRecords(ctx, rows)
}

// GrantAccess inserts access rows idempotently; existing grants are left
// untouched so repeated shares produce the set union. Duplicate ids within
// one call are collapsed before the insert.
func (repo *FileGormRepository) GrantAccess(ctx context.Context, fileID uint, userIDs []uint) error {
	seen := make(map[uint]struct{}, len(userIDs))
	rows := make([]entities.FileAccess, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, entities.FileAccess{FileID: fileID, UserID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to grant file access",
			err,
			"17f5d8b3-0e64-4a92-bc71-8a2f95c60d13",
		)
	}
	return nil
}

func (repo *FileGormRepository) Delete(ctx context.Context, id uint) error {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", id).Delete(&entities.FileAccess{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.FileRecord{}, id).Error
	})
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete file record",
			err,
			"8a61e0c5-3f27-4d98-b5a4-c90d16e87f32",
		)
	}
	return nil
}

func (repo *FileGormRepository) loadByID(ctx context.Context, id uint) (*file.FileRecord, error) {
	var entity entities.FileRecord
	if err := repo.db.WithContext(ctx).Preload("Owner").First(&entity, id).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to reload file record",
			err,
			"be52d904-71c8-4e36-8f0a-d64b29c15a87",
		)
	}
	return repo.mapRecord(ctx, entity)
}

func (repo *FileGormRepository) mapRecords(ctx context.Context, rows []entities.FileRecord) ([]*file.FileRecord, error) {
	out := make([]*file.FileRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := repo.mapRecord(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (repo *FileGormRepository) mapRecord(ctx context.Context, entity entities.FileRecord) (*file.FileRecord, error) {
	var accessIDs []uint
	err := repo.db.WithContext(ctx).
		Model(&entities.FileAccess{}).
		Where("file_id = ?", entity.ID).
		Pluck("user_id", &accessIDs).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load file access list",
			err,
			"402e9c68-b5d1-4f07-a823-69c1d50e84fb",
		)
	}
	return &file.FileRecord{
		ID:           entity.ID,
		Name:         entity.Name,
		Size:         entity.Size,
		OriginalSize: entity.OriginalSize,
		Compressed:   entity.Compressed,
		MediaType:    entity.MediaType,
		CID:          entity.CID,
		OwnerID:      entity.OwnerID,
		OwnerName:    entity.Owner.Username,
		IsPublic:     entity.IsPublic,
		Description:  entity.Description,
		AccessList:   accessIDs,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}, nil
}
