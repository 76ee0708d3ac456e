// Package kodo implements the Qiniu Kodo object storage adapter.
//
// Uploads, listing and batched deletes go through the Kodo SDK. Read access
// to the private bucket uses this repo's own URL signer so that display
// domain substitution happens strictly after signing and expiry can be
// checked before any fetch.
package kodo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/qiniu/go-sdk/v7/auth/qbox"
	qiniu "github.com/qiniu/go-sdk/v7/storage"

	"github.com/yi-nology/page_harbor/pkg/sign"
)

const (
	// defaultUploadTokenTTL is how long a batch upload credential stays valid.
	defaultUploadTokenTTL = 24 * time.Hour

	// listPageSize is the max entry count per ListFiles page.
	listPageSize = 1000

	// deleteBatchSize is the Kodo batch API per-request operation limit.
	deleteBatchSize = 1000
)

// Config holds Kodo storage configuration.
type Config struct {
	AccessKey string
	SecretKey string
	Bucket    string
	// Zone is the region identifier: z0, z1, z2, na0 or as0.
	Zone string
	// Domain is the canonical bucket domain; signatures are computed against it.
	Domain string
	// DisplayDomain optionally replaces Domain in emitted URLs after signing.
	DisplayDomain string
	UseSSL        bool
}

// Storage implements the storage.Storage interface using Qiniu Kodo.
type Storage struct {
	mac    *qbox.Mac
	cfg    *qiniu.Config
	signer *sign.Signer
	conf   Config

	uploadToken    string
	tokenDeadline  time.Time
	uploadTokenTTL time.Duration
}

// New creates a new Kodo storage adapter.
func New(cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("access key and secret key are required")
	}

	mac := qbox.NewMac(cfg.AccessKey, cfg.SecretKey)

	qcfg := &qiniu.Config{
		UseHTTPS:      cfg.UseSSL,
		UseCdnDomains: false,
	}
	fillZone(qcfg, cfg.Zone)

	return &Storage{
		mac:            mac,
		cfg:            qcfg,
		signer:         sign.New(cfg.AccessKey, cfg.SecretKey),
		conf:           cfg,
		uploadTokenTTL: defaultUploadTokenTTL,
	}, nil
}

// PrepareBatch mints one upload token reused for every PutObject that
// follows. Called once before a bulk upload loop.
func (s *Storage) PrepareBatch(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.uploadTokenTTL
	}
	policy := qiniu.PutPolicy{
		Scope:   s.conf.Bucket,
		Expires: uint64(ttl / time.Second),
	}
	s.uploadToken = policy.UploadToken(s.mac)
	s.tokenDeadline = time.Now().Add(ttl)
	return nil
}

// PutObject uploads one object using the batch upload token.
func (s *Storage) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	if s.uploadToken == "" || time.Now().After(s.tokenDeadline) {
		if err := s.PrepareBatch(ctx, 0); err != nil {
			return err
		}
	}

	uploader := qiniu.NewFormUploader(s.cfg)
	ret := qiniu.PutRet{}
	extra := qiniu.PutExtra{MimeType: contentType}

	if err := uploader.Put(ctx, &ret, s.uploadToken, key, data, size, &extra); err != nil {
		return fmt.Errorf("put object: %w", err)
	}

	return nil
}

// GetObject fetches an object by signing a short-lived private URL and
// reading it over HTTP.
func (s *Storage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	signed, err := s.SignURL(ctx, key, 3*time.Minute)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signed, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch object: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch object: status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// ListObjects pages through the bucket listing until the backend reports no
// more entries.
func (s *Storage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	bm := qiniu.NewBucketManager(s.mac, s.cfg)

	var keys []string
	marker := ""
	for {
		entries, _, nextMarker, hasNext, err := bm.ListFiles(s.conf.Bucket, prefix, "", marker, listPageSize)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, entry := range entries {
			keys = append(keys, entry.Key)
		}
		if !hasNext {
			break
		}
		marker = nextMarker
	}

	return keys, nil
}

// DeleteObjects issues batched deletes and returns the confirmed count.
// Keys that are already gone (612) are tolerated.
func (s *Storage) DeleteObjects(ctx context.Context, keys []string) (int, error) {
	bm := qiniu.NewBucketManager(s.mac, s.cfg)

	deleted := 0
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		ops := make([]string, 0, end-start)
		for _, key := range keys[start:end] {
			ops = append(ops, qiniu.URIDelete(s.conf.Bucket, key))
		}

		rets, err := bm.Batch(ops)
		if err != nil && len(rets) == 0 {
			continue
		}
		for _, ret := range rets {
			if ret.Code == 0 || ret.Code == http.StatusOK {
				deleted++
			}
		}
	}

	return deleted, nil
}

// SignURL builds the canonical private URL for key, signs it, then applies
// the cosmetic display-domain substitution.
func (s *Storage) SignURL(ctx context.Context, key string, lifetime time.Duration) (string, error) {
	if s.conf.Domain == "" {
		return "", fmt.Errorf("storage domain is not configured")
	}

	scheme := "http"
	if s.conf.UseSSL {
		scheme = "https"
	}
	canonical := fmt.Sprintf("%s://%s/%s", scheme, s.conf.Domain, escapeKey(key))

	signed := s.signer.Sign(canonical, lifetime)
	return sign.SubstituteDomain(signed, s.conf.Domain, s.conf.DisplayDomain), nil
}

// PublicURL returns the unsigned display URL for a key.
func (s *Storage) PublicURL(key string) string {
	domain := s.conf.DisplayDomain
	if domain == "" {
		domain = s.conf.Domain
	}
	scheme := "http"
	if s.conf.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, domain, escapeKey(key))
}

// Type returns "kodo" as the storage type identifier.
func (s *Storage) Type() string {
	return "kodo"
}

// escapeKey percent-encodes each path segment of an object key.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// fillZone maps the configured region identifier onto an SDK zone.
func fillZone(cfg *qiniu.Config, zone string) {
	switch zone {
	case "z0":
		cfg.Zone = &qiniu.ZoneHuadong
	case "z1":
		cfg.Zone = &qiniu.ZoneHuabei
	case "z2":
		cfg.Zone = &qiniu.ZoneHuanan
	case "na0":
		cfg.Zone = &qiniu.ZoneBeimei
	case "as0":
		cfg.Zone = &qiniu.ZoneXinjiapo
	default:
		cfg.Zone = &qiniu.ZoneHuadong
	}
}
