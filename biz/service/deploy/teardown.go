package deploy

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// TeardownResult reports how many of the listed objects were removed.
type TeardownResult struct {
	DeletedCount int `json:"deleted_count"`
	TotalCount   int `json:"total_count"`
}

// Teardown removes every object under prefix. Listing failure aborts before
// any delete is attempted; partial delete failures are tolerated and only
// confirmed deletions are counted. An empty listing is success, not an error.
func (s *Service) Teardown(ctx context.Context, prefix string) (*TeardownResult, error) {
	if prefix == "" {
		return nil, fmt.Errorf("storage prefix is required")
	}

	keys, err := s.store.ListObjects(ctx, prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("list objects under %s: %w", prefix, err)
	}

	result := &TeardownResult{TotalCount: len(keys)}
	if len(keys) == 0 {
		return result, nil
	}

	deleted, err := s.store.DeleteObjects(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("delete objects under %s: %w", prefix, err)
	}
	result.DeletedCount = deleted

	if deleted < len(keys) {
		hlog.CtxWarnf(ctx, "teardown of %s removed %d of %d objects", prefix, deleted, len(keys))
	}

	return result, nil
}
