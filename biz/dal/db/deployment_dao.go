package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/yi-nology/page_harbor/biz/dal/model"

	"gorm.io/gorm"
)

// DeploymentDAO handles CRUD operations for deployment records.
type DeploymentDAO struct{}

func NewDeploymentDAO() *DeploymentDAO { return &DeploymentDAO{} }

func (dao *DeploymentDAO) Create(ctx context.Context, db *gorm.DB, record *model.Deployment) error {
	if record == nil {
		return nil
	}
	if record.RecordID == "" {
		record.RecordID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(record).Error
}

// Update applies the non-zero fields of record to the row matching its
// RecordID. Returns gorm.ErrRecordNotFound if no row matches.
func (dao *DeploymentDAO) Update(ctx context.Context, db *gorm.DB, record *model.Deployment) error {
	if record == nil {
		return nil
	}
	result := db.WithContext(ctx).
		Model(&model.Deployment{}).
		Where("record_id = ?", record.RecordID).
		Updates(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByRecordID removes the matching row. Removing zero rows is not an
// error; the returned count lets callers detect it.
func (dao *DeploymentDAO) DeleteByRecordID(ctx context.Context, db *gorm.DB, recordID string) (int64, error) {
	result := db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Delete(&model.Deployment{})
	return result.RowsAffected, result.Error
}

func (dao *DeploymentDAO) GetByRecordID(ctx context.Context, db *gorm.DB, recordID string) (*model.Deployment, error) {
	var record model.Deployment
	if err := db.WithContext(ctx).Where("record_id = ?", recordID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByLogicalNameAndTarget returns the newest live record for the given
// logical name and target, used for the idempotent re-deploy fast path.
func (dao *DeploymentDAO) GetByLogicalNameAndTarget(ctx context.Context, db *gorm.DB, logicalName, target string) (*model.Deployment, error) {
	var record model.Deployment
	err := db.WithContext(ctx).
		Where("logical_name = ? AND target = ?", logicalName, target).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns records newest-first.
func (dao *DeploymentDAO) List(ctx context.Context, db *gorm.DB) ([]model.Deployment, error) {
	var records []model.Deployment
	if err := db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// TrimToLimit evicts the oldest rows beyond limit. Silent by design: the
// cap is a storage-size bound, not an error condition.
func (dao *DeploymentDAO) TrimToLimit(ctx context.Context, db *gorm.DB, limit int) error {
	if limit <= 0 {
		return nil
	}
	var ids []uint
	if err := db.WithContext(ctx).
		Model(&model.Deployment{}).
		Order("created_at DESC, id DESC").
		Offset(limit).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Delete(&model.Deployment{}, ids).Error
}
