package svgconv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/svgconv/svgicon"
)

var separators = strings.NewReplacer("/", "_", "\\", "_")

// OutputPath returns where the PNG converted from `src` is written.
//
// The file is named <stem>_<W>x<H>.png. When `root` is the folder of a
// folder batch, the directories between `root` and `src` are joined with '_'
// and prepended, so that files from different sub-folders don't collide
// in `outDir`. For file inputs written to `outDir`, the parent folder name is
// prepended instead. An empty `outDir` writes next to `src`.
func OutputPath(src, root, outDir string, size svgicon.Size) string {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" { // dot file
		stem = base
	}
	if stem == "." || stem == string(filepath.Separator) {
		stem = "output"
	}
	name := fmt.Sprintf("%s_%dx%d.png", stem, size.Width, size.Height)

	var prefix string
	if root != "" {
		if rel, ok := relative(root, src); ok {
			if dir := filepath.Dir(rel); dir != "." {
				prefix = separators.Replace(dir)
			}
		}
	} else if outDir != "" {
		parent := filepath.Base(filepath.Dir(src))
		if parent != "." && parent != string(filepath.Separator) {
			prefix = parent
		}
	}
	if prefix != "" {
		name = prefix + "_" + name
	}

	if outDir != "" {
		return filepath.Join(outDir, name)
	}
	return filepath.Join(filepath.Dir(src), name)
}

// relative returns the path of `path` inside `root`, and false
// if `path` is not below `root`.
func relative(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// prepareOutput creates the parent directories of `path`.
func prepareOutput(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ioError(err)
	}
	return nil
}
