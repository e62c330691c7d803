package preflight

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/Aman-CERP/setupcheck/internal/errors"
)

// CheckRuntime verifies that the interpreter runs and reports a version
// inside the manifest's supported range.
func (c *Checker) CheckRuntime(ctx context.Context) bool {
	c.out.Header("Checking Python Version")

	spec := c.manifest.Interpreter
	v, err := c.interp.Version(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		c.out.Checkf(false, "Could not determine Python version using %q", spec.Command)
		c.out.Indent(apperrors.FormatDetail(err))
		c.logger.Warn("interpreter unavailable", slog.Any("error", apperrors.FormatForLog(err)))
		return false
	}

	c.out.Linef("Python version: %s", v)

	constraint, err := c.manifest.VersionConstraint()
	if err != nil {
		c.out.Checkf(false, "Supported Python version range is invalid")
		c.out.Indent(err.Error())
		return false
	}

	if !constraint.Check(v) {
		c.out.Checkf(false, "Python %s or higher required", spec.MinVersion)
		c.detail(apperrors.New(apperrors.ErrCodeVersionMismatch,
			fmt.Sprintf("version %s does not satisfy %s", v, constraint), nil))
		return false
	}

	c.out.Checkf(true, "Python version is compatible (%s+)", spec.MinVersion)
	return true
}
