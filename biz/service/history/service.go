// Package history persists one record per completed deployment and keeps
// the collection bounded to the most recent entries.
package history

import (
	"context"
	"errors"

	"github.com/yi-nology/page_harbor/biz/dal/db"
	"github.com/yi-nology/page_harbor/biz/dal/model"

	"gorm.io/gorm"
)

// DefaultLimit caps how many deployment records are retained.
const DefaultLimit = 50

// Service exposes the deployment history CRUD surface. Lookups for missing
// ids come back empty rather than failing, which keeps update and delete
// idempotent for callers.
type Service struct {
	db    *gorm.DB
	dao   *db.DeploymentDAO
	limit int
}

// NewService wires the history store. limit <= 0 falls back to DefaultLimit.
func NewService(gdb *gorm.DB, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		db:    gdb,
		dao:   db.NewDeploymentDAO(),
		limit: limit,
	}
}

// Save persists a new record and silently evicts the oldest entries beyond
// the retention cap. Eviction is a storage-size bound, not an error.
func (s *Service) Save(ctx context.Context, record *model.Deployment) error {
	if err := s.dao.Create(ctx, s.db, record); err != nil {
		return err
	}
	return s.dao.TrimToLimit(ctx, s.db, s.limit)
}

// List returns all retained records, newest first.
func (s *Service) List(ctx context.Context) ([]model.Deployment, error) {
	return s.dao.List(ctx, s.db)
}

// Get returns the record for id, or (nil, nil) when it does not exist.
func (s *Service) Get(ctx context.Context, recordID string) (*model.Deployment, error) {
	record, err := s.dao.GetByRecordID(ctx, s.db, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// FindByNameAndTarget returns the newest record for a logical name and
// target, or (nil, nil) when none exists.
func (s *Service) FindByNameAndTarget(ctx context.Context, logicalName, target string) (*model.Deployment, error) {
	record, err := s.dao.GetByLogicalNameAndTarget(ctx, s.db, logicalName, target)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// Update applies the non-zero fields to the record. The bool reports whether
// a record was found; a missing id is not an error.
func (s *Service) Update(ctx context.Context, recordID string, fields *model.Deployment) (bool, error) {
	fields.RecordID = recordID
	err := s.dao.Update(ctx, s.db, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the record and returns it so callers can tear down its
// remote objects. Deleting a missing id is a no-op returning (nil, nil).
func (s *Service) Delete(ctx context.Context, recordID string) (*model.Deployment, error) {
	record, err := s.Get(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	if _, err := s.dao.DeleteByRecordID(ctx, s.db, recordID); err != nil {
		return nil, err
	}
	return record, nil
}
