// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"recipe-cli/pkg/recipefile"
)

const (
	// SourceExplicit indicates the path was given with --file.
	SourceExplicit Source = iota
	// SourceCurrentDir indicates the file was found in the base directory.
	SourceCurrentDir
	// SourceParentDir indicates the file was found in an ancestor of the base directory.
	SourceParentDir
)

// FileNames are the recognized recipefile names, in order of precedence.
var FileNames = []string{"recipefile", "Recipefile", ".recipefile"}

// ErrRecipefileNotFound is returned when no recipefile exists on the search path.
var ErrRecipefileNotFound = errors.New("recipefile not found")

type (
	// Source represents where a recipefile was found.
	Source int

	// NotFoundError reports a search that reached the filesystem root.
	NotFoundError struct {
		// StartDir is where the upward search began.
		StartDir string
	}

	// DiscoveredFile represents a found recipefile.
	DiscoveredFile struct {
		// Path is the absolute path to the recipefile.
		Path string
		// Source indicates how the file was found.
		Source Source
		// Recipefile is the parsed content (nil until Load).
		Recipefile *recipefile.Recipefile
	}

	// Result bundles a discovered file with non-fatal diagnostics.
	Result struct {
		File        *DiscoveredFile
		Diagnostics []Diagnostic
	}

	// Discovery finds recipefiles.
	Discovery struct {
		baseDir  string
		explicit string
		stat     func(string) (fs.FileInfo, error)
	}

	// Option configures a Discovery.
	Option func(*Discovery)
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "--file"
	case SourceCurrentDir:
		return "current directory"
	case SourceParentDir:
		return "parent directory"
	default:
		return "unknown"
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no recipefile found in %s or any parent directory (looked for %v)", e.StartDir, FileNames)
}

// Unwrap returns ErrRecipefileNotFound so callers can use errors.Is for programmatic detection.
func (e *NotFoundError) Unwrap() error { return ErrRecipefileNotFound }

// WithBaseDir sets the directory the upward search starts from.
// Defaults to the process working directory.
func WithBaseDir(dir string) Option {
	return func(d *Discovery) { d.baseDir = dir }
}

// WithFile skips the search and uses path directly.
func WithFile(path string) Option {
	return func(d *Discovery) { d.explicit = path }
}

// New creates a new Discovery instance.
func New(opts ...Option) *Discovery {
	d := &Discovery{stat: os.Stat}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Find locates the recipefile without parsing it.
func (d *Discovery) Find() (*Result, error) {
	if d.explicit != "" {
		path, err := filepath.Abs(d.explicit)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve recipefile path: %w", err)
		}
		if _, err := d.stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrRecipefileNotFound, d.explicit)
			}
			return nil, fmt.Errorf("failed to access recipefile: %w", err)
		}
		return &Result{File: &DiscoveredFile{Path: path, Source: SourceExplicit}}, nil
	}

	start := d.baseDir
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		start = wd
	}
	start, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve search directory: %w", err)
	}

	var diagnostics []Diagnostic
	source := SourceCurrentDir
	for dir := start; ; {
		path, diags := d.findInDir(dir)
		diagnostics = append(diagnostics, diags...)
		if path != "" {
			return &Result{
				File:        &DiscoveredFile{Path: path, Source: source},
				Diagnostics: diagnostics,
			}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, &NotFoundError{StartDir: start}
		}
		dir = parent
		source = SourceParentDir
	}
}

// Load locates and parses the recipefile.
func (d *Discovery) Load() (*Result, error) {
	res, err := d.Find()
	if err != nil {
		return nil, err
	}
	file, err := recipefile.ParseFile(res.File.Path)
	if err != nil {
		return nil, err
	}
	res.File.Recipefile = file
	return res, nil
}

// findInDir returns the first recipefile in dir and warns about shadowed candidates.
func (d *Discovery) findInDir(dir string) (string, []Diagnostic) {
	var (
		found       string
		diagnostics []Diagnostic
	)
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		info, err := d.stat(path)
		switch {
		case err != nil && errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			diagnostics = append(diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeUnreadableDir,
				Message:  fmt.Sprintf("cannot inspect %s", path),
				Path:     path,
				Cause:    err,
			})
			continue
		case info.IsDir():
			continue
		}

		if found == "" {
			found = path
			continue
		}
		if sameFile(d.stat, found, path) {
			continue
		}
		diagnostics = append(diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeShadowedRecipefile,
			Message:  fmt.Sprintf("ignoring %s; %s takes precedence", name, filepath.Base(found)),
			Path:     path,
		})
	}
	return found, diagnostics
}

// sameFile detects case-insensitive filesystems where two names resolve to one file.
func sameFile(stat func(string) (fs.FileInfo, error), a, b string) bool {
	ia, err := stat(a)
	if err != nil {
		return false
	}
	ib, err := stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}
