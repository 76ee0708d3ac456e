// Package mimetype maps file extensions to content types and transfer
// classes. Uploaded site bundles may carry no usable object metadata, so the
// extension table is authoritative everywhere: upstream Content-Type headers
// are never trusted for the preview path.
package mimetype

import (
	"path"
	"strings"
)

// contentTypes is the fixed extension table used for upload and preview.
var contentTypes = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".css":   "text/css",
	".js":    "application/javascript",
	".json":  "application/json",
	".xml":   "application/xml",
	".txt":   "text/plain",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".ico":   "image/x-icon",
	".bmp":   "image/bmp",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
}

// binaryExtensions is the allow-list of extensions transferred as raw bytes.
// Everything else is treated as UTF-8 text.
var binaryExtensions = map[string]bool{
	".png":   true,
	".jpg":   true,
	".jpeg":  true,
	".gif":   true,
	".webp":  true,
	".ico":   true,
	".bmp":   true,
	".woff":  true,
	".woff2": true,
	".ttf":   true,
	".otf":   true,
	".eot":   true,
}

// ByExtension returns the content type for a key's extension.
// Unknown extensions fall back to text/plain.
func ByExtension(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "text/plain"
}

// IsBinary reports whether the key's extension is on the binary allow-list.
// The classification is informational: objects are transferred as raw bytes
// either way.
func IsBinary(key string) bool {
	return binaryExtensions[strings.ToLower(path.Ext(key))]
}
