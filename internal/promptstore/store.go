package promptstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"promptkit/internal/services"
)

// TemplateExt is the file extension used for templates on disk.
const TemplateExt = ".txt"

// Store loads template text by name.
type Store interface {
	Load(ctx context.Context, name string) (string, error)
	List(ctx context.Context) ([]Entry, error)
}

// Entry summarizes one stored template.
type Entry struct {
	Name   string `json:"name"`
	Bytes  int    `json:"bytes"`
	Source string `json:"source"`
}

var folder = cases.Fold()

// NormalizeName trims a template name, drops a trailing .txt and folds case.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, TemplateExt)
	return folder.String(name)
}

// Dir serves templates straight from a directory.
type Dir struct {
	root string
}

// NewDir returns a directory-backed store rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the directory the store reads from.
func (d *Dir) Root() string {
	return d.root
}

// Load reads <root>/<name>.txt. Names may also be paths relative to root.
func (d *Dir) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := d.resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "promptstore", "load", fmt.Sprintf("template %q", name), nil)
		}
		return "", fmt.Errorf("read template %s: %w", path, err)
	}
	return string(data), nil
}

// List returns every .txt template under root, sorted by name.
func (d *Dir) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || filepath.Ext(path) != TemplateExt {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Name:   strings.TrimSuffix(filepath.ToSlash(rel), TemplateExt),
			Bytes:  int(info.Size()),
			Source: path,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "promptstore", "list", fmt.Sprintf("directory %q", d.root), nil)
		}
		return nil, fmt.Errorf("list templates: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (d *Dir) resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("template name is empty")
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	if !strings.HasSuffix(name, TemplateExt) {
		name += TemplateExt
	}
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("template name %q escapes the prompt directory", name)
	}
	return filepath.Join(d.root, cleaned), nil
}
