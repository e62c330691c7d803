package preflight

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar"

	"github.com/Aman-CERP/setupcheck/internal/config"
)

// CheckDataFiles verifies the required data files. The sample count is
// printed as advice and does not affect the result.
func (c *Checker) CheckDataFiles(_ context.Context) bool {
	c.out.Header("Checking Data Files")

	allExist := true
	for _, f := range c.manifest.DataFiles {
		err := c.statKind(f.Path, config.KindFile)
		ok := err == nil
		c.out.Checkf(ok, "%s: %s", dataLabel(f), f.Path)
		c.detail(err)
		allExist = allExist && ok
	}

	if n, ok := c.CountSamples(); ok {
		c.out.Checkf(n > 0, "%s: %d project files found", c.sampleLabel(), n)
	}

	return allExist
}

// CountSamples counts regular files under the sample directory whose
// slash-separated relative path matches the sample pattern. It returns
// false when no sample directory is configured or it does not exist.
func (c *Checker) CountSamples() (int, bool) {
	spec := c.manifest.Samples
	if spec.Dir == "" {
		return 0, false
	}

	dir := c.resolve(spec.Dir)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return 0, false
	}

	count := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		if match, _ := doublestar.Match(spec.Pattern, filepath.ToSlash(rel)); match {
			count++
		}
		return nil
	})

	c.logger.Debug("samples counted",
		slog.String("dir", dir),
		slog.String("pattern", spec.Pattern),
		slog.Int("count", count))
	return count, true
}

func dataLabel(f config.DataFileSpec) string {
	if f.Description != "" {
		return f.Description
	}
	return "Data file"
}

func (c *Checker) sampleLabel() string {
	if c.manifest.Samples.Label != "" {
		return c.manifest.Samples.Label
	}
	return "Sample files"
}
