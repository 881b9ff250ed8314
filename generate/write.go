package generate

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/logger"
	"github.com/teranos/ctorgen/synth"
)

// Action is what Write did to one output file.
type Action string

const (
	ActionWritten   Action = "written"
	ActionUnchanged Action = "unchanged"
	ActionRemoved   Action = "removed"
	// ActionKept marks a file at the output path that ctorgen did not
	// generate and therefore never touches.
	ActionKept Action = "kept"
)

// Change records the effect of Write on one output path.
type Change struct {
	Path   string
	Action Action
}

// Write brings the output files on disk in line with results: generated
// sources are written when they differ, and generated files of packages that
// no longer have builders are removed. Skipped packages are left alone.
func Write(results []*Result) ([]Change, error) {
	var changes []Change
	for _, r := range results {
		if r.Skipped {
			continue
		}
		existing, err := os.ReadFile(r.Output)
		exists := err == nil
		if err != nil && !os.IsNotExist(err) {
			return changes, errors.Wrapf(err, "failed to read %s", r.Output)
		}

		switch {
		case r.Source == nil && !exists:
			continue

		case r.Source == nil:
			if !isGenerated(existing) {
				changes = append(changes, Change{Path: r.Output, Action: ActionKept})
				continue
			}
			if err := os.Remove(r.Output); err != nil {
				return changes, errors.Wrapf(err, "failed to remove stale %s", r.Output)
			}
			changes = append(changes, Change{Path: r.Output, Action: ActionRemoved})

		case exists && bytes.Equal(existing, r.Source):
			changes = append(changes, Change{Path: r.Output, Action: ActionUnchanged})

		default:
			if exists && !isGenerated(existing) {
				return changes, errors.WithHint(
					errors.Newf("%s exists and was not generated by ctorgen", r.Output),
					"rename the file or set generate.output to a different name")
			}
			if err := os.WriteFile(r.Output, r.Source, 0644); err != nil {
				return changes, errors.Wrapf(err, "failed to write %s", r.Output)
			}
			changes = append(changes, Change{Path: r.Output, Action: ActionWritten})
		}
	}
	return changes, nil
}

// isGenerated reports whether content starts with the generated-file header.
func isGenerated(content []byte) bool {
	line, _, _ := bytes.Cut(content, []byte("\n"))
	return string(bytes.TrimSpace(line)) == synth.Header
}

// maxLine bounds a single line of a compared file.
const maxLine = 4 * 1024 * 1024

// Stale is an output file whose content differs from a fresh generation.
type Stale struct {
	Path string
	// Diff is a unified diff from the file on disk to the fresh output.
	Diff string
}

// Check compares results against the files on disk without writing. The
// header line is ignored so that a header change alone does not fail CI.
func Check(results []*Result) ([]Stale, error) {
	var stale []Stale
	for _, r := range results {
		if r.Skipped {
			continue
		}
		existing, err := os.ReadFile(r.Output)
		exists := err == nil
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read %s", r.Output)
		}
		if exists && !isGenerated(existing) {
			continue
		}

		var onDisk, fresh string
		if exists {
			if onDisk, err = filterHeader(existing); err != nil {
				return nil, errors.Wrapf(err, "failed to read %s", r.Output)
			}
		}
		if r.Source != nil {
			if fresh, err = filterHeader(r.Source); err != nil {
				return nil, errors.Wrapf(err, "failed to compare generated source for %s", r.Output)
			}
		}
		if onDisk == fresh {
			continue
		}

		diff, err := unifiedDiff(r.Output, onDisk, fresh)
		if err != nil {
			return nil, err
		}
		stale = append(stale, Stale{Path: r.Output, Diff: diff})
		logger.Debugw("stale output", logger.FieldOutput, r.Output)
	}
	return stale, nil
}

// filterHeader removes the generated-file header line from content.
func filterHeader(content []byte) (string, error) {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == synth.Header {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrap(err, "failed to scan source")
	}
	return result.String(), nil
}

func unifiedDiff(path, onDisk, fresh string) (string, error) {
	name := path
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
			name = rel
		}
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(onDisk),
		B:        difflib.SplitLines(fresh),
		FromFile: name,
		ToFile:   name + " (generated)",
		Context:  3,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to diff %s", path)
	}
	return diff, nil
}
