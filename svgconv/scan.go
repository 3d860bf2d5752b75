package svgconv

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/benoitkugler/svgconv/svgicon"
)

// maxPreviewSizes bounds the distinct sizes reported by ScanFolderSizes.
const maxPreviewSizes = 6

// FolderSizeReport summarizes the intrinsic sizes of the
// SVG files of a folder.
type FolderSizeReport struct {
	Total       int            `json:"total"`
	AllSame     bool           `json:"allSame"`
	BaseSize    *svgicon.Size  `json:"baseSize"`    // first size found, nil for an empty folder
	UniqueSizes []svgicon.Size `json:"uniqueSizes"` // at most 6, in discovery order
}

// IsSVG reports whether `path` has the .svg extension, in any case.
func IsSVG(path string) bool { return strings.EqualFold(filepath.Ext(path), ".svg") }

func isSVGFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular() && IsSVG(path)
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// walkSVG calls `fn` for every regular .svg file below `dir`,
// in lexical order. Entries which can't be read are skipped.
// Symbolic links are not followed.
func walkSVG(dir string, fn func(path string) error) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() || !IsSVG(path) {
			return nil
		}
		return fn(path)
	})
}

// listSVG returns the sorted .svg files below `dir`.
func listSVG(dir string) []string {
	var out []string
	_ = walkSVG(dir, func(path string) error {
		out = append(out, path)
		return nil
	})
	sort.Strings(out)
	return out
}

// CountFiles returns the number of .svg files below `dir`.
func CountFiles(dir string) (int, error) {
	if !isDir(dir) {
		return 0, invalidInput("Invalid folder path.")
	}
	var n int
	_ = walkSVG(dir, func(string) error {
		n++
		return nil
	})
	return n, nil
}

// ScanFolderSizes reads the intrinsic size of the .svg files below `dir`.
//
// Files are counted until the end, but parsing stops at the first size
// differing from the first one, or once maxPreviewSizes distinct sizes
// have been collected. Any parse failure aborts the scan.
func ScanFolderSizes(dir string) (FolderSizeReport, error) {
	if !isDir(dir) {
		return FolderSizeReport{}, invalidInput("Invalid folder path.")
	}

	report := FolderSizeReport{AllSame: true, UniqueSizes: []svgicon.Size{}}
	keepParsing := true
	err := walkSVG(dir, func(path string) error {
		report.Total++
		if !keepParsing {
			return nil
		}

		size, err := svgicon.ReadSize(path)
		if err != nil {
			return parseError(fmt.Errorf("%s: %w", path, err))
		}

		if report.BaseSize == nil {
			report.BaseSize = &size
		} else if size != *report.BaseSize {
			// the first mismatch settles the classification
			report.AllSame = false
			if !containsSize(report.UniqueSizes, size) {
				report.UniqueSizes = append(report.UniqueSizes, size)
			}
			keepParsing = false
			return nil
		}

		if !containsSize(report.UniqueSizes, size) {
			report.UniqueSizes = append(report.UniqueSizes, size)
			if len(report.UniqueSizes) >= maxPreviewSizes && len(report.UniqueSizes) > 1 {
				report.AllSame = false
				keepParsing = false
			}
		}
		return nil
	})
	if err != nil {
		return FolderSizeReport{}, err
	}

	if report.AllSame && report.BaseSize != nil && len(report.UniqueSizes) == 0 {
		report.UniqueSizes = append(report.UniqueSizes, *report.BaseSize)
	}
	return report, nil
}

func containsSize(sizes []svgicon.Size, s svgicon.Size) bool {
	for _, v := range sizes {
		if v == s {
			return true
		}
	}
	return false
}
