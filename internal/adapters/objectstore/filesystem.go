package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"hotel_management/internal/domain"
)

// FilesystemStore keeps objects under <root>/<bucket>/<key>. It is meant
// for development and tests.
type FilesystemStore struct {
	root      string
	publicURL string
}

var _ domain.ObjectStore = (*FilesystemStore)(nil)

// NewFilesystemStore roots the store at root. With an empty publicURL,
// resource URLs use the file:// scheme.
func NewFilesystemStore(root, publicURL string) (*FilesystemStore, error) {
	if root == "" {
		root = "data/objects"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve object root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create object root: %w", err)
	}
	return &FilesystemStore{root: abs, publicURL: publicURL}, nil
}

// resolve maps bucket and key onto disk and refuses paths that escape the
// bucket directory.
func (s *FilesystemStore) resolve(bucket, key string) (string, error) {
	base := filepath.Join(s.root, filepath.Clean("/"+bucket))
	p := filepath.Join(base, filepath.FromSlash(key))
	if p != base && !strings.HasPrefix(p, base+string(filepath.Separator)) {
		return "", fmt.Errorf("object key %q escapes bucket", key)
	}
	return p, nil
}

func (s *FilesystemStore) Put(_ context.Context, file domain.FilePayload, keyPrefix, bucket string) (domain.Descriptor, error) {
	dir := normalizePrefix(keyPrefix)
	name := objectName(file)
	key := dir + name

	p, err := s.resolve(bucket, key)
	if err != nil {
		return domain.Descriptor{}, err
	}
	u, err := s.objectURL(bucket, key, p)
	if err != nil {
		return domain.Descriptor{}, fmt.Errorf("object url: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return domain.Descriptor{}, fmt.Errorf("ensure object dir: %w", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, file.Data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return domain.Descriptor{}, fmt.Errorf("write object: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return domain.Descriptor{}, fmt.Errorf("rename object: %w", err)
	}
	return domain.Descriptor{
		FileName:    name,
		ResourceURL: u,
		Directory:   dir,
		Hash:        contentHash(file.Data),
	}, nil
}

// Delete treats a missing object as already deleted.
func (s *FilesystemStore) Delete(_ context.Context, bucket, directory, fileName string) error {
	if fileName == "" {
		return nil
	}
	p, err := s.resolve(bucket, directory+fileName)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *FilesystemStore) List(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error) {
	base, err := s.resolve(bucket, "")
	if err != nil {
		return nil, err
	}
	var out []domain.ObjectInfo
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || strings.HasSuffix(p, ".tmp") {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		i := strings.LastIndex(key, "/") + 1
		out = append(out, domain.ObjectInfo{
			Directory:    key[:i],
			FileName:     key[i:],
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	return out, nil
}

func (s *FilesystemStore) objectURL(bucket, key, abs string) (string, error) {
	if s.publicURL != "" {
		return joinURL(s.publicURL, bucket, key)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
