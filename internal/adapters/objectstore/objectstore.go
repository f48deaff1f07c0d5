// Package objectstore holds the domain.ObjectStore drivers: S3 (or any S3
// compatible endpoint) for deployments and the local filesystem for
// development.
package objectstore

import (
	"crypto/sha256"
	"encoding/hex"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"hotel_management/internal/domain"
)

// objectName returns a fresh "<uuid><ext>" name. The extension comes from the
// uploaded file name, falling back to the content type.
func objectName(file domain.FilePayload) string {
	ext := strings.ToLower(path.Ext(file.Name))
	if ext == "" && file.ContentType != "" {
		if exts, err := mime.ExtensionsByType(file.ContentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return uuid.NewString() + ext
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// normalizePrefix makes sure a non-empty prefix ends with "/".
func normalizePrefix(p string) string {
	p = strings.TrimLeft(p, "/")
	if p != "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// joinURL appends escaped key segments to base.
func joinURL(base string, segments ...string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	return u.JoinPath(segments...).String(), nil
}
