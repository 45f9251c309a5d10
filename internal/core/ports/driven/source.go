package driven

import "context"

// DocumentSource discovers and reads candidate document files.
// Implementations must return paths in a stable sorted order so the
// pipeline never depends on file-system enumeration order, which is
// not guaranteed stable across platforms.
type DocumentSource interface {
	// Root returns the absolute path of the document tree root.
	Root() string

	// List returns repo-relative, slash-separated paths of all candidate
	// files, sorted lexically, with excluded-path predicates applied.
	List(ctx context.Context) ([]string, error)

	// Read returns the raw bytes of one candidate file.
	Read(ctx context.Context, relPath string) ([]byte, error)

	// Exists reports whether a repo-relative path exists, without
	// escaping the tree root. Used for internal link resolution.
	Exists(ctx context.Context, relPath string) bool
}
