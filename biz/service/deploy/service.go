package deploy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/yi-nology/page_harbor/biz/dal/model"
	"github.com/yi-nology/page_harbor/pkg/config"
	"github.com/yi-nology/page_harbor/pkg/storage"
)

const (
	previewPathPrefix = "/api/v1/preview/"

	// publicURLLifetime bounds how long a deploy response's direct link
	// stays fetchable for private buckets.
	publicURLLifetime = time.Hour
)

var (
	// ErrConfiguration marks a missing credential/bucket detected before any I/O.
	ErrConfiguration = errors.New("configuration missing")
	// ErrNothingUploaded marks a batch where every single file failed.
	ErrNothingUploaded = errors.New("no file uploaded")
	// ErrInvalidTarget marks an unknown deploy destination.
	ErrInvalidTarget = errors.New("invalid deploy target")
)

// HistoryStore is the persistence surface the deploy flow needs. Implemented
// by biz/service/history.
type HistoryStore interface {
	// FindByNameAndTarget returns the newest live record for a logical name
	// and target, or (nil, nil) when none exists.
	FindByNameAndTarget(ctx context.Context, logicalName, target string) (*model.Deployment, error)
	Save(ctx context.Context, record *model.Deployment) error
	Update(ctx context.Context, recordID string, fields *model.Deployment) (bool, error)
}

// Service orchestrates deployments: naming, enumeration, bulk upload,
// history persistence and teardown.
type Service struct {
	store   storage.Storage
	history HistoryStore
	cfg     *config.Config
	github  *GitHubDeployer
}

// NewService wires the deploy service. The GitHub deployer stays nil until
// git-hosting credentials are configured.
func NewService(store storage.Storage, history HistoryStore, cfg *config.Config) *Service {
	s := &Service{
		store:   store,
		history: history,
		cfg:     cfg,
	}
	if cfg.GitHub.Token != "" && cfg.GitHub.Owner != "" && cfg.GitHub.Repo != "" {
		s.github = NewGitHubDeployer(cfg.GitHub)
	}
	return s
}

// Result is the outcome of one deploy call. FailedCount is nonzero on
// partial failure even though Success stays true; callers must inspect it.
type Result struct {
	Success       bool   `json:"success"`
	RecordID      string `json:"record_id,omitempty"`
	DirName       string `json:"dir_name"`
	BaseURL       string `json:"base_url,omitempty"`
	IndexURL      string `json:"index_url,omitempty"`
	PreviewURL    string `json:"preview_url,omitempty"`
	UploadedCount int    `json:"uploaded_count"`
	FailedCount   int    `json:"failed_count"`
}

// ConfigStatus exposes configuration presence flags, never the values.
type ConfigStatus struct {
	AccessKeyPresent bool `json:"access_key_present"`
	SecretKeyPresent bool `json:"secret_key_present"`
	BucketPresent    bool `json:"bucket_present"`
	DomainPresent    bool `json:"domain_present"`
	Configured       bool `json:"configured"`
}

// CheckConfig reports which storage credentials are present for the active
// backend, so operators can diagnose missing setup without a deploy attempt.
func (s *Service) CheckConfig() ConfigStatus {
	var status ConfigStatus

	switch s.cfg.Storage.Type {
	case "", "local":
		status.AccessKeyPresent = true
		status.SecretKeyPresent = true
		status.BucketPresent = true
		status.DomainPresent = true
		status.Configured = s.cfg.Storage.Local.BasePath != ""
	case "s3":
		c := s.cfg.Storage.S3
		status.AccessKeyPresent = c.AccessKey != ""
		status.SecretKeyPresent = c.SecretKey != ""
		status.BucketPresent = c.Bucket != ""
		status.DomainPresent = true
		status.Configured = status.AccessKeyPresent && status.SecretKeyPresent && status.BucketPresent
	case "kodo":
		c := s.cfg.Storage.Kodo
		status.AccessKeyPresent = c.AccessKey != ""
		status.SecretKeyPresent = c.SecretKey != ""
		status.BucketPresent = c.Bucket != ""
		status.DomainPresent = c.Domain != ""
		status.Configured = status.AccessKeyPresent && status.SecretKeyPresent &&
			status.BucketPresent && status.DomainPresent
	}

	return status
}

// Deploy uploads the site under sourceDir for logicalName to the chosen
// target and records the deployment. metadata travels through history as
// opaque JSON.
func (s *Service) Deploy(ctx context.Context, sourceDir, logicalName, target, metadata string) (*Result, error) {
	if logicalName == "" {
		return nil, fmt.Errorf("logical name is required")
	}
	if target == "" {
		target = model.TargetNone
	}
	if !model.IsValidTarget(target) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, target)
	}

	switch target {
	case model.TargetNone:
		return s.recordOnly(ctx, logicalName, metadata)
	case model.TargetGitHosting:
		return s.deployGitHosting(ctx, sourceDir, logicalName, metadata)
	default:
		return s.deployObjectStorage(ctx, sourceDir, logicalName, metadata)
	}
}

func (s *Service) deployObjectStorage(ctx context.Context, sourceDir, logicalName, metadata string) (*Result, error) {
	if err := s.requireStorageConfig(); err != nil {
		return nil, err
	}

	// Reuse the stored prefix when this logical name was deployed before:
	// the prefix is derived once and never recomputed, so re-deploys and
	// teardown always address the same remote object set.
	existing, err := s.history.FindByNameAndTarget(ctx, logicalName, model.TargetObjectStorage)
	if err != nil {
		return nil, err
	}
	prefix := ""
	if existing != nil {
		prefix = existing.StoragePrefix
	}
	if prefix == "" {
		prefix = ResolvePrefix(logicalName, s.cfg.Deploy.NamingSalt)
	}

	entries, err := EnumerateDir(sourceDir)
	if err != nil {
		return nil, err
	}

	outcome, err := s.uploadAll(ctx, prefix, entries)
	if err != nil {
		return nil, err
	}
	if outcome.FilesFailed > 0 {
		hlog.CtxWarnf(ctx, "deploy of %s completed with %d/%d failed uploads",
			prefix, outcome.FilesFailed, outcome.FilesAttempted)
	}

	baseURL, indexURL := s.buildStorageURLs(ctx, prefix)
	previewURL := s.buildPreviewURL(prefix)

	record := &model.Deployment{
		LogicalName:   logicalName,
		StoragePrefix: prefix,
		Target:        model.TargetObjectStorage,
		PublicURL:     indexURL,
		PreviewURL:    previewURL,
		Metadata:      metadata,
	}
	if existing != nil {
		record.RecordID = existing.RecordID
		if _, err := s.history.Update(ctx, existing.RecordID, record); err != nil {
			return nil, err
		}
	} else if err := s.history.Save(ctx, record); err != nil {
		return nil, err
	}

	return &Result{
		Success:       true,
		RecordID:      record.RecordID,
		DirName:       prefix,
		BaseURL:       baseURL,
		IndexURL:      indexURL,
		PreviewURL:    previewURL,
		UploadedCount: outcome.FilesSucceeded,
		FailedCount:   outcome.FilesFailed,
	}, nil
}

func (s *Service) deployGitHosting(ctx context.Context, sourceDir, logicalName, metadata string) (*Result, error) {
	if s.github == nil {
		return nil, fmt.Errorf("%w: github token/owner/repo", ErrConfiguration)
	}

	existing, err := s.history.FindByNameAndTarget(ctx, logicalName, model.TargetGitHosting)
	if err != nil {
		return nil, err
	}
	prefix := ""
	if existing != nil {
		prefix = existing.StoragePrefix
	}
	if prefix == "" {
		prefix = ResolvePrefix(logicalName, s.cfg.Deploy.NamingSalt)
	}

	entries, err := EnumerateDir(sourceDir)
	if err != nil {
		return nil, err
	}

	outcome, err := s.github.PushFiles(ctx, prefix, entries)
	if err != nil {
		return nil, err
	}

	baseURL := s.github.PagesURL(prefix)
	indexURL := baseURL + "index.html"

	record := &model.Deployment{
		LogicalName:   logicalName,
		StoragePrefix: prefix,
		Target:        model.TargetGitHosting,
		PublicURL:     indexURL,
		PreviewURL:    baseURL,
		Metadata:      metadata,
	}
	if existing != nil {
		record.RecordID = existing.RecordID
		if _, err := s.history.Update(ctx, existing.RecordID, record); err != nil {
			return nil, err
		}
	} else if err := s.history.Save(ctx, record); err != nil {
		return nil, err
	}

	return &Result{
		Success:       true,
		RecordID:      record.RecordID,
		DirName:       prefix,
		BaseURL:       baseURL,
		IndexURL:      indexURL,
		PreviewURL:    baseURL,
		UploadedCount: outcome.FilesSucceeded,
		FailedCount:   outcome.FilesFailed,
	}, nil
}

// recordOnly persists a deployment with no remote destination.
func (s *Service) recordOnly(ctx context.Context, logicalName, metadata string) (*Result, error) {
	record := &model.Deployment{
		LogicalName: logicalName,
		Target:      model.TargetNone,
		Metadata:    metadata,
	}
	if err := s.history.Save(ctx, record); err != nil {
		return nil, err
	}
	return &Result{Success: true, RecordID: record.RecordID}, nil
}

// requireStorageConfig fails fast, before any I/O, naming the missing item.
func (s *Service) requireStorageConfig() error {
	switch s.cfg.Storage.Type {
	case "", "local":
		return nil
	case "s3":
		c := s.cfg.Storage.S3
		switch {
		case c.AccessKey == "":
			return fmt.Errorf("%w: s3 access key", ErrConfiguration)
		case c.SecretKey == "":
			return fmt.Errorf("%w: s3 secret key", ErrConfiguration)
		case c.Bucket == "":
			return fmt.Errorf("%w: s3 bucket", ErrConfiguration)
		}
		return nil
	case "kodo":
		c := s.cfg.Storage.Kodo
		switch {
		case c.AccessKey == "":
			return fmt.Errorf("%w: kodo access key", ErrConfiguration)
		case c.SecretKey == "":
			return fmt.Errorf("%w: kodo secret key", ErrConfiguration)
		case c.Bucket == "":
			return fmt.Errorf("%w: kodo bucket", ErrConfiguration)
		case c.Domain == "":
			return fmt.Errorf("%w: kodo domain", ErrConfiguration)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported storage type %s", ErrConfiguration, s.cfg.Storage.Type)
	}
}

// buildStorageURLs derives the informational base URL and, when the backend
// signs reads, a directly fetchable (time-limited) index link.
func (s *Service) buildStorageURLs(ctx context.Context, prefix string) (baseURL, indexURL string) {
	if public, ok := s.store.(storage.PublicURLer); ok {
		baseURL = public.PublicURL(prefix + "/")
	}

	if signer, ok := s.store.(storage.URLSigner); ok {
		signed, err := signer.SignURL(ctx, prefix+"/index.html", publicURLLifetime)
		if err != nil {
			hlog.CtxWarnf(ctx, "sign index url for %s: %v", prefix, err)
		} else {
			indexURL = signed
		}
		return baseURL, indexURL
	}

	// No signer: the preview proxy is the only way in.
	indexURL = s.buildPreviewURL(prefix) + "index.html"
	if baseURL == "" {
		baseURL = s.buildPreviewURL(prefix)
	}
	return baseURL, indexURL
}

func (s *Service) buildPreviewURL(prefix string) string {
	return s.cfg.Server.BaseURL + previewPathPrefix + prefix + "/"
}
