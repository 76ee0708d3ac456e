package mimetype_test

import (
	"testing"

	"github.com/yi-nology/page_harbor/pkg/mimetype"
)

func TestByExtension(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"acme-ab12cd34/index.html", "text/html"},
		{"css/style.css", "text/css"},
		{"js/main.js", "application/javascript"},
		{"img/logo.SVG", "image/svg+xml"},
		{"fonts/inter.woff2", "font/woff2"},
		{"README", "text/plain"},
		{"data.unknownext", "text/plain"},
	}
	for _, c := range cases {
		if got := mimetype.ByExtension(c.key); got != c.want {
			t.Errorf("ByExtension(%q) = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestIsBinary(t *testing.T) {
	for _, key := range []string{"a.png", "b.JPG", "fonts/c.woff2", "d.eot"} {
		if !mimetype.IsBinary(key) {
			t.Errorf("IsBinary(%q) = false, want true", key)
		}
	}
	for _, key := range []string{"index.html", "style.css", "main.js", "notes.txt", "LICENSE"} {
		if mimetype.IsBinary(key) {
			t.Errorf("IsBinary(%q) = true, want false", key)
		}
	}
}
