// Package templgen compiles .templ sources into their _templ.go files.
package templgen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/a-h/templ/generator"
	"github.com/a-h/templ/parser/v2"
)

var ErrStale = errors.New("generated templ files are stale")

type Config struct {
	// Paths are directories scanned recursively for .templ files.
	Paths []string
	// BasePath anchors the file names embedded in generated error positions.
	BasePath string
	// Check reports outdated outputs instead of writing them.
	Check bool
}

// Result lists the outputs that differed from their source. In check mode
// nothing was written.
type Result struct {
	Sources []string
	Changed []string
}

func Run(cfg Config) (Result, error) {
	basePath := strings.TrimSpace(cfg.BasePath)
	if basePath == "" {
		basePath = "."
	}
	baseAbs, err := filepath.Abs(basePath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve base path %q: %w", basePath, err)
	}

	sources, err := collectSources(cfg.Paths)
	if err != nil {
		return Result{}, err
	}
	if len(sources) == 0 {
		return Result{}, errors.New("no templ files found")
	}

	result := Result{Sources: sources}
	for _, source := range sources {
		target, formatted, err := generate(source, baseAbs)
		if err != nil {
			return result, err
		}

		current, err := os.ReadFile(target)
		if err == nil && bytes.Equal(current, formatted) {
			continue
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("read %q: %w", target, err)
		}

		result.Changed = append(result.Changed, target)
		if cfg.Check {
			continue
		}
		if err := os.WriteFile(target, formatted, 0o644); err != nil {
			return result, fmt.Errorf("write %q: %w", target, err)
		}
	}

	if cfg.Check && len(result.Changed) > 0 {
		return result, fmt.Errorf("%w: %s", ErrStale, strings.Join(result.Changed, ", "))
	}
	return result, nil
}

func collectSources(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	all := make([]string, 0, 8)

	for _, root := range paths {
		rootAbs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve path %q: %w", root, err)
		}
		walkErr := filepath.WalkDir(rootAbs, func(filePath string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				if filePath != rootAbs && strings.HasPrefix(entry.Name(), "_") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(filePath) != ".templ" {
				return nil
			}
			if _, ok := seen[filePath]; ok {
				return nil
			}
			seen[filePath] = struct{}{}
			all = append(all, filePath)
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk path %q: %w", root, walkErr)
		}
	}

	sort.Strings(all)
	return all, nil
}

func generate(source string, baseAbs string) (string, []byte, error) {
	t, err := parser.Parse(source)
	if err != nil {
		return "", nil, fmt.Errorf("parse %q: %w", source, err)
	}

	relName, err := filepath.Rel(baseAbs, source)
	if err != nil {
		return "", nil, fmt.Errorf("relative name for %q: %w", source, err)
	}

	var output bytes.Buffer
	if _, err := generator.Generate(t, &output, generator.WithFileName(filepath.ToSlash(relName))); err != nil {
		return "", nil, fmt.Errorf("generate %q: %w", source, err)
	}

	formatted, err := format.Source(output.Bytes())
	if err != nil {
		return "", nil, fmt.Errorf("format output of %q: %w", source, err)
	}

	return strings.TrimSuffix(source, ".templ") + "_templ.go", formatted, nil
}
