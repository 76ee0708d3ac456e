// Package sign implements time-bounded URL signing for private bucket access.
//
// The scheme is the Kodo private-URL convention: the URL to sign is the
// canonical object URL with an `e=<unix deadline>` query parameter appended;
// the signature is HMAC-SHA1 over that full string keyed by the storage
// secret, encoded with the standard base64 alphabet with `+` -> `-`,
// `/` -> `_` and trailing `=` stripped, and appended as
// `token=<accessKey>:<signature>`.
package sign

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Signer produces signed URLs for a single access key pair.
type Signer struct {
	accessKey string
	secretKey []byte
}

// New creates a Signer for the given key pair.
func New(accessKey, secretKey string) *Signer {
	return &Signer{
		accessKey: accessKey,
		secretKey: []byte(secretKey),
	}
}

// Sign returns rawURL with expiry and signature parameters appended. The
// resulting URL is a bearer capability until the deadline passes; callers
// must not log it anywhere untrusted parties can read.
func (s *Signer) Sign(rawURL string, lifetime time.Duration) string {
	deadline := time.Now().Add(lifetime).Unix()
	return s.SignWithDeadline(rawURL, deadline)
}

// SignWithDeadline signs rawURL against an absolute unix deadline.
func (s *Signer) SignWithDeadline(rawURL string, deadline int64) string {
	toSign := rawURL
	if strings.Contains(toSign, "?") {
		toSign += "&e="
	} else {
		toSign += "?e="
	}
	toSign += strconv.FormatInt(deadline, 10)

	mac := hmac.New(sha1.New, s.secretKey)
	mac.Write([]byte(toSign))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("%s&token=%s:%s", toSign, s.accessKey, sig)
}

// SubstituteDomain replaces the canonical domain with a display domain in an
// already signed URL. The substitution is purely cosmetic; the signature was
// computed against the canonical domain and stays valid for the backend.
func SubstituteDomain(signedURL, canonical, display string) string {
	if display == "" || canonical == "" || canonical == display {
		return signedURL
	}
	return strings.Replace(signedURL, canonical, display, 1)
}

// Deadline extracts the unix expiry embedded in a signed URL.
func Deadline(signedURL string) (int64, error) {
	u, err := url.Parse(signedURL)
	if err != nil {
		return 0, fmt.Errorf("parse signed url: %w", err)
	}
	e := u.Query().Get("e")
	if e == "" {
		return 0, fmt.Errorf("signed url has no expiry parameter")
	}
	deadline, err := strconv.ParseInt(e, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry %q: %w", e, err)
	}
	return deadline, nil
}

// Expired reports whether the embedded deadline has passed. It allows a
// pre-flight check before spending a network round trip on a dead URL.
func Expired(signedURL string) (bool, error) {
	deadline, err := Deadline(signedURL)
	if err != nil {
		return false, err
	}
	return time.Now().Unix() >= deadline, nil
}
