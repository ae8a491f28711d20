package files

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"institute/random"
)

// Store writes uploads under a root directory and hands back the relative
// path persisted on records. Clients turn those into URLs by prefixing the
// configured file base URL.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

// Save streams src into <root>/<folder>/<random>-<name> and returns the
// path relative to the root. The original name is kept for readability but
// prefixed to avoid collisions between same-named uploads.
func (s *Store) Save(src io.Reader, folder, name string) (string, error) {
	prefix, err := random.StringSecure(12)
	if err != nil {
		return "", fmt.Errorf("generating file name: %w", err)
	}

	name = sanitize(name)
	rel := path.Join(folder, prefix+"-"+name)

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating folder for %s: %w", rel, err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", rel, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("writing %s: %w", rel, err)
	}

	return rel, nil
}

// Root exposes the directory for static serving.
func (s *Store) Root() string { return s.root }

func sanitize(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "upload"
	}
	return name
}
