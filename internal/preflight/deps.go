package preflight

import (
	"context"
	"log/slog"

	apperrors "github.com/Aman-CERP/setupcheck/internal/errors"
)

// CheckDependencies probes every listed module in order. A missing module
// is reported and the remaining ones are still probed.
func (c *Checker) CheckDependencies(ctx context.Context) bool {
	c.out.Header("Checking Dependencies")

	allInstalled := true
	for _, dep := range c.manifest.Dependencies {
		label := dep.Label()

		probe, err := c.interp.ProbeModule(ctx, dep.Import)
		if ctx.Err() != nil {
			return false
		}

		switch {
		case err != nil:
			allInstalled = false
			c.out.Checkf(false, "%s is NOT installed", label)
			c.out.Indent(apperrors.FormatDetail(err))
		case !probe.Loaded:
			allInstalled = false
			c.out.Checkf(false, "%s is NOT installed", label)
			c.detail(apperrors.New(apperrors.ErrCodeModuleLoad, probe.Detail, nil).
				WithDetail("module", dep.Import))
		case probe.HasVersion():
			c.out.Checkf(true, "%s is installed (version %s)", label, probe.Version)
		default:
			c.out.Checkf(true, "%s is installed", label)
		}

		c.logger.Debug("dependency probed",
			slog.String("module", dep.Import),
			slog.Bool("loaded", err == nil && probe.Loaded),
			slog.String("version", probe.Version))
	}

	if !allInstalled {
		c.out.Newline()
		if c.manifest.DependencyManifest != "" {
			c.out.Linef("To install missing dependencies (listed in %s), run:", c.manifest.DependencyManifest)
		} else {
			c.out.Line("To install missing dependencies, run:")
		}
		if c.manifest.InstallCommand != "" {
			c.out.Indent(c.manifest.InstallCommand)
		}
	}

	return allInstalled
}
