package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed catalog/*.yaml
var builtinCatalog embed.FS

// LoadBuiltin compiles the catalog shipped with the binary.
func LoadBuiltin() (*Registry, error) {
	return Load("")
}

// Load compiles the built-in catalog plus every *.yaml file in extraDir.
// Extra files may add enums, types, aliases and inference rules; inference
// rules from extraDir are evaluated after the built-in ones.
func Load(extraDir string) (*Registry, error) {
	merged := &CatalogSpec{}

	if err := mergeDir(merged, builtinCatalog, "catalog"); err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}

	if extraDir != "" {
		if err := mergeDir(merged, os.DirFS(extraDir), "."); err != nil {
			return nil, fmt.Errorf("catalog dir %q: %w", extraDir, err)
		}
	}

	return Compile(merged)
}

// mergeDir reads catalog files in lexical order so that inference order is stable.
func mergeDir(dst *CatalogSpec, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		spec, err := ParseCatalog(content)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := dst.merge(spec); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		slog.Debug("Loaded catalog file", "file", name, "types", len(spec.Types), "aliases", len(spec.Aliases))
	}
	return nil
}
