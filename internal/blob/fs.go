package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const metaSuffix = ".meta"

// FSStore keeps objects as files under a root directory with a JSON sidecar
// holding the content type.
type FSStore struct {
	root string
}

type metaFile struct {
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewFS returns a filesystem store rooted at root, creating it if needed.
func NewFS(root string) (*FSStore, error) {
	if root == "" {
		root = "./blobdata"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) path(key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(filepath.Clean(key))), nil
}

// Put writes body atomically through a temp file.
func (s *FSStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	dataPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("put %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	meta, err := json.Marshal(metaFile{ContentType: contentType, Size: int64(len(body)), UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	if err := os.WriteFile(dataPath+metaSuffix, meta, 0o644); err != nil {
		return fmt.Errorf("put %s meta: %w", key, err)
	}
	return nil
}

// Get reads an object. A missing sidecar yields an empty content type.
func (s *FSStore) Get(_ context.Context, key string) (Object, error) {
	dataPath, err := s.path(key)
	if err != nil {
		return Object{}, err
	}
	body, err := os.ReadFile(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Object{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return Object{}, fmt.Errorf("get %s: %w", key, err)
	}
	mf := readMeta(dataPath + metaSuffix)
	return Object{
		Info: Info{Key: key, Size: int64(len(body)), ContentType: mf.ContentType, LastModified: mf.UpdatedAt},
		Body: body,
	}, nil
}

// List walks the root and returns objects under prefix sorted by key.
func (s *FSStore) List(_ context.Context, prefix string) ([]Info, error) {
	var infos []Info
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := d.Name()
		if d.IsDir() || strings.HasSuffix(base, metaSuffix) || strings.HasPrefix(base, ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		st, err := d.Info()
		if err != nil {
			return err
		}
		mf := readMeta(p + metaSuffix)
		infos = append(infos, Info{Key: key, Size: st.Size(), ContentType: mf.ContentType, LastModified: st.ModTime().UTC()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func readMeta(path string) metaFile {
	var mf metaFile
	b, err := os.ReadFile(path)
	if err != nil {
		return mf
	}
	_ = json.Unmarshal(b, &mf)
	return mf
}
