// Package filesystem implements document discovery over a local
// directory tree.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/core/ports/driven"
	"github.com/refcorpus/corpusctl/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Source discovers markdown documents under a root directory.
// Discovery results are sorted lexically before being returned, so the
// pipeline never observes platform-specific directory order. Dot
// directories are skipped and excluded-path glob predicates are applied
// against slash-separated relative paths.
type Source struct {
	root     string
	include  string
	excluded []string
}

// Option configures the source.
type Option func(*Source)

// WithInclude overrides the include glob (default "**/*.md").
func WithInclude(glob string) Option {
	return func(s *Source) {
		if glob != "" {
			s.include = glob
		}
	}
}

// WithExcluded sets the excluded-path glob predicates.
func WithExcluded(globs []string) Option {
	return func(s *Source) {
		s.excluded = globs
	}
}

// New creates a source rooted at root. The root must exist and be a
// directory.
func New(root string, opts ...Option) (*Source, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("document root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document root %s is not a directory", abs)
	}

	s := &Source{
		root:    abs,
		include: domain.DefaultIncludeGlob,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Reject malformed globs up front rather than silently matching
	// nothing during discovery.
	for _, glob := range append([]string{s.include}, s.excluded...) {
		if !doublestar.ValidatePattern(glob) {
			return nil, fmt.Errorf("invalid glob pattern %q", glob)
		}
	}

	return s, nil
}

// Root returns the absolute document tree root.
func (s *Source) Root() string {
	return s.root
}

// List walks the tree and returns the sorted relative paths of all
// candidate files.
func (s *Source) List(ctx context.Context) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		if ok, _ := doublestar.Match(s.include, rel); !ok {
			return nil
		}
		if s.excludedPath(rel) {
			logger.Debug("Excluding %s", rel)
			return nil
		}

		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", s.root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Read returns the raw bytes of one discovered file.
func (s *Source) Read(_ context.Context, relPath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.root, filepath.FromSlash(relPath)))
}

// Exists reports whether relPath resolves to an existing file or
// directory inside the tree root. Paths escaping the root report false.
func (s *Source) Exists(_ context.Context, relPath string) bool {
	full := filepath.Clean(filepath.Join(s.root, filepath.FromSlash(relPath)))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return false
	}
	_, err := os.Stat(full)
	return err == nil
}

// excludedPath applies the excluded-path predicates.
func (s *Source) excludedPath(rel string) bool {
	for _, glob := range s.excluded {
		if ok, _ := doublestar.Match(glob, rel); ok {
			return true
		}
	}
	return false
}
