// Package preview proxies private storage objects back to clients. The
// browser only ever sees same-origin paths; signed URLs and credentials stay
// on the server side.
package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yi-nology/page_harbor/pkg/mimetype"
	"github.com/yi-nology/page_harbor/pkg/sign"
	"github.com/yi-nology/page_harbor/pkg/storage"
)

// signedFetchLifetime bounds the signed URL minted for each proxied read.
const signedFetchLifetime = time.Hour

// UpstreamDeniedError reports a 401/403 from the storage backend. The
// attempted URL is included for operator diagnosis; it is short-lived, and
// this is operator tooling, not a multi-tenant public surface.
type UpstreamDeniedError struct {
	StatusCode   int
	AttemptedURL string
}

func (e *UpstreamDeniedError) Error() string {
	return fmt.Sprintf("upstream denied access (status %d)", e.StatusCode)
}

// Service resolves preview paths to storage keys and streams object bytes.
type Service struct {
	store  storage.Storage
	client *http.Client
}

func NewService(store storage.Storage) *Service {
	return &Service{
		store:  store,
		client: http.DefaultClient,
	}
}

// ResolveKey maps a client-supplied path onto a storage key. The rule:
// index.html is appended iff the final path segment contains no dot, so a
// trailing slash (empty final segment) and a bare directory name normalize
// identically, and dots in directory segments are ignored.
func ResolveKey(path string) string {
	key := strings.TrimPrefix(path, "/")
	if key == "" {
		return "index.html"
	}

	final := key[strings.LastIndex(key, "/")+1:]
	if strings.Contains(final, ".") {
		return key
	}
	if !strings.HasSuffix(key, "/") {
		key += "/"
	}
	return key + "index.html"
}

// Fetch resolves path, obtains the object and returns its bytes with the
// content type inferred from the key's extension. The upstream object
// store's own content-type metadata is deliberately not trusted.
func (s *Service) Fetch(ctx context.Context, path string) (io.ReadCloser, string, error) {
	key := ResolveKey(path)
	contentType := mimetype.ByExtension(key)

	signer, ok := s.store.(storage.URLSigner)
	if !ok {
		// Backend without signed reads (local): stream directly.
		body, err := s.store.GetObject(ctx, key)
		if err != nil {
			return nil, "", fmt.Errorf("get object %s: %w", key, err)
		}
		return body, contentType, nil
	}

	signedURL, err := signer.SignURL(ctx, key, signedFetchLifetime)
	if err != nil {
		return nil, "", fmt.Errorf("sign url for %s: %w", key, err)
	}

	// A dead URL is detectable without spending the round trip.
	if expired, err := sign.Expired(signedURL); err == nil && expired {
		return nil, "", &UpstreamDeniedError{StatusCode: http.StatusForbidden, AttemptedURL: signedURL}
	}

	// The request inherits ctx, so a client disconnect aborts the upstream
	// fetch on a best-effort basis.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build upstream request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch upstream: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, contentType, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		resp.Body.Close()
		return nil, "", &UpstreamDeniedError{StatusCode: resp.StatusCode, AttemptedURL: signedURL}
	default:
		resp.Body.Close()
		return nil, "", fmt.Errorf("upstream returned status %d for %s", resp.StatusCode, key)
	}
}
