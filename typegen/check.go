package typegen

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/teranos/typereflect/errors"
)

// Difference is one generated file that does not match what is on disk.
type Difference struct {
	// Path is relative to the compared directories
	Path   string
	Reason string
}

// CheckResult holds the result of an up-to-date check
type CheckResult struct {
	UpToDate    bool
	Differences []Difference
}

// Difference reasons
const (
	ReasonMissing = "missing"
	ReasonChanged = "changed"
)

// CompareDirectories compares every file generated under generatedDir with the
// file at the same relative path under existingDir. Files present only in
// existingDir are not reported: a destination may share its directory with
// hand-written sources.
func CompareDirectories(generatedDir, existingDir string) (*CheckResult, error) {
	var diffs []Difference

	err := filepath.WalkDir(generatedDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(generatedDir, path)
		if err != nil {
			return err
		}
		reason, err := compareFile(path, filepath.Join(existingDir, rel))
		if err != nil {
			return err
		}
		if reason != "" {
			diffs = append(diffs, Difference{Path: rel, Reason: reason})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compare %s with %s", generatedDir, existingDir)
	}

	sort.Slice(diffs, func(i, j int) bool { return diffs[i].Path < diffs[j].Path })
	return &CheckResult{UpToDate: len(diffs) == 0, Differences: diffs}, nil
}

// compareFile returns an empty reason when both files hold the same bytes.
func compareFile(generated, existing string) (string, error) {
	want, err := os.ReadFile(generated)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", generated)
	}
	got, err := os.ReadFile(existing)
	if os.IsNotExist(err) {
		return ReasonMissing, nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", existing)
	}
	if !bytes.Equal(want, got) {
		return ReasonChanged, nil
	}
	return "", nil
}
