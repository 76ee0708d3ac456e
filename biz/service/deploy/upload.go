package deploy

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/yi-nology/page_harbor/pkg/mimetype"
	"github.com/yi-nology/page_harbor/pkg/storage"
)

// uploadCredentialTTL is how long the per-batch upload credential stays
// valid. Minted once before the loop, reused for every file in the batch.
const uploadCredentialTTL = 24 * time.Hour

// UploadOutcome aggregates per-file results of one bulk upload.
type UploadOutcome struct {
	FilesAttempted int
	FilesSucceeded int
	FilesFailed    int
	PerFileErrors  map[string]string
}

// uploadAll pushes every enumerated file to prefix+"/"+relativePath,
// sequentially in enumeration order. A failed file is recorded and the loop
// moves on; the batch only hard-fails when nothing at all uploaded.
func (s *Service) uploadAll(ctx context.Context, prefix string, entries []FileEntry) (*UploadOutcome, error) {
	if preparer, ok := s.store.(storage.BatchPreparer); ok {
		if err := preparer.PrepareBatch(ctx, uploadCredentialTTL); err != nil {
			return nil, fmt.Errorf("prepare upload credential: %w", err)
		}
	}

	outcome := &UploadOutcome{
		PerFileErrors: make(map[string]string),
	}

	for _, entry := range entries {
		outcome.FilesAttempted++

		if err := s.uploadOne(ctx, prefix, entry); err != nil {
			outcome.FilesFailed++
			outcome.PerFileErrors[entry.StorageRelativePath] = err.Error()
			hlog.CtxWarnf(ctx, "upload failed for %s/%s: %v", prefix, entry.StorageRelativePath, err)
			continue
		}
		outcome.FilesSucceeded++
	}

	if outcome.FilesAttempted > 0 && outcome.FilesSucceeded == 0 {
		return outcome, fmt.Errorf("%w: %d files attempted", ErrNothingUploaded, outcome.FilesAttempted)
	}

	return outcome, nil
}

func (s *Service) uploadOne(ctx context.Context, prefix string, entry FileEntry) error {
	f, err := os.Open(entry.AbsolutePath)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat source file: %w", err)
	}

	key := prefix + "/" + entry.StorageRelativePath
	contentType := mimetype.ByExtension(entry.StorageRelativePath)

	return s.store.PutObject(ctx, key, f, contentType, info.Size())
}
