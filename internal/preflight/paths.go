package preflight

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/Aman-CERP/setupcheck/internal/config"
	apperrors "github.com/Aman-CERP/setupcheck/internal/errors"
)

// CheckPaths verifies every expected file and directory. All entries are
// evaluated and printed even after a failure.
func (c *Checker) CheckPaths(_ context.Context) bool {
	c.out.Header("Checking Files and Directories")

	allExist := true
	for _, p := range c.manifest.Paths {
		err := c.statKind(p.Path, p.Kind)
		ok := err == nil
		c.out.Check(ok, describePath(p))
		c.detail(err)
		allExist = allExist && ok
	}
	return allExist
}

func describePath(p config.PathSpec) string {
	if p.Description != "" {
		return p.Description + ": " + p.Path
	}
	if p.Kind == config.KindDirectory {
		return "Directory: " + p.Path
	}
	return "File: " + p.Path
}

// statKind returns nil if p exists and has the expected kind. A file must
// be a regular file; symlinks are followed.
func (c *Checker) statKind(p string, kind config.Kind) error {
	full := c.resolve(p)

	info, err := os.Stat(full)
	if err != nil {
		msg := "cannot access path"
		if errors.Is(err, fs.ErrNotExist) {
			msg = "path does not exist"
		}
		return apperrors.New(apperrors.ErrCodePathMissing, msg, err).
			WithDetail("path", p)
	}

	switch kind {
	case config.KindDirectory:
		if !info.IsDir() {
			return apperrors.New(apperrors.ErrCodePathWrongKind, "expected a directory", nil).
				WithDetail("path", p)
		}
	default:
		if !info.Mode().IsRegular() {
			return apperrors.New(apperrors.ErrCodePathWrongKind, "expected a regular file", nil).
				WithDetail("path", p)
		}
	}
	return nil
}
