// Package fshost implements the resolver's metadata host over a directory
// of extracted metadata documents (a metadata bundle).
//
// For a module file "src/app.js" the host reads "src/app.js.metadata.json"
// under the bundle root. A metadata file holds either one document or a
// JSON array of candidate documents.
package fshost

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/davidenochk/symgraph/internal/metadata"
)

const metadataSuffix = ".metadata.json"

// Host serves metadata documents from a bundle directory. File paths and
// module targets are bundle-relative, slash-separated.
type Host struct {
	root        string
	moduleRoots []string
}

// New creates a Host over root. moduleRoots are the directories searched
// for bare (non-relative) module specifiers; defaults to "node_modules".
func New(root string, moduleRoots ...string) *Host {
	if len(moduleRoots) == 0 {
		moduleRoots = []string{"node_modules"}
	}
	return &Host{root: root, moduleRoots: moduleRoots}
}

// GetMetadataFor reads the candidate documents for a file, or none when no
// metadata file exists.
func (h *Host) GetMetadataFor(filePath string) ([]metadata.Document, error) {
	data, err := os.ReadFile(h.metadataPath(filePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read metadata for %s: %w", filePath, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var docs []metadata.Document
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("parse metadata for %s: %w", filePath, err)
		}
		return docs, nil
	}

	var doc metadata.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", filePath, err)
	}
	return []metadata.Document{doc}, nil
}

// ModuleNameToFileName maps a module specifier to a bundle-relative file
// path. Relative specifiers resolve against the containing file's
// directory; bare specifiers are searched under the module roots.
func (h *Host) ModuleNameToFileName(module, containingFile string) (string, error) {
	if module == "" {
		return "", fmt.Errorf("empty module specifier in %s", containingFile)
	}

	if strings.HasPrefix(module, "./") || strings.HasPrefix(module, "../") {
		resolved := path.Clean(path.Join(path.Dir(containingFile), module))
		if resolved == ".." || strings.HasPrefix(resolved, "../") {
			return "", fmt.Errorf("module %q escapes the bundle root", module)
		}
		if target, ok := h.probe(resolved); ok {
			return target, nil
		}
		return "", fmt.Errorf("no metadata for module %q relative to %s", module, containingFile)
	}

	for _, root := range h.moduleRoots {
		if target, ok := h.probe(path.Join(root, module)); ok {
			return target, nil
		}
	}
	return "", fmt.Errorf("module %q not found under %s", module, strings.Join(h.moduleRoots, ", "))
}

// probe tries the candidate path as-is, with a .js extension, and as a
// directory with an index module.
func (h *Host) probe(candidate string) (string, bool) {
	for _, target := range []string{candidate, candidate + ".js", path.Join(candidate, "index.js")} {
		if _, err := os.Stat(h.metadataPath(target)); err == nil {
			return target, true
		}
	}
	return "", false
}

func (h *Host) metadataPath(filePath string) string {
	return filepath.Join(h.root, filepath.FromSlash(filePath)+metadataSuffix)
}
