package preflight

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Aman-CERP/setupcheck/internal/config"
	apperrors "github.com/Aman-CERP/setupcheck/internal/errors"
	"github.com/Aman-CERP/setupcheck/internal/interp"
	"github.com/Aman-CERP/setupcheck/internal/logging"
	"github.com/Aman-CERP/setupcheck/internal/output"
	"github.com/Aman-CERP/setupcheck/internal/syntax"
)

// Check names as they appear in the summary.
const (
	NameRuntime      = "Python Version"
	NameDependencies = "Dependencies"
	NamePaths        = "Files & Directories"
	NameEntryPoint   = "Application Syntax"
	NameDataFiles    = "Data Files"
)

// CheckResult holds the outcome of a single check.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

// Report is the ordered list of check results of one run.
type Report struct {
	Results []CheckResult `json:"results"`
}

// AllPassed returns true only if every check passed.
func (r Report) AllPassed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Passed returns the number of passing checks.
func (r Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

// ExitCode maps the report to the process exit status.
func (r Report) ExitCode() int {
	if r.AllPassed() {
		return 0
	}
	return 1
}

// SourceValidator parses non-Python source text and reports the first
// syntax error.
// *syntax.Checker satisfies it.
type SourceValidator interface {
	Check(ctx context.Context, source []byte, language string) error
}

// Check is one named step of the verification sequence.
type Check struct {
	Name string
	Run  func(ctx context.Context) bool
}

// Checker performs the verification checks for one manifest.
type Checker struct {
	manifest *config.Manifest
	root     string
	verbose  bool
	out      *output.Writer
	interp   interp.Interpreter
	syntax   SourceValidator
	langs    *syntax.LanguageRegistry
	logger   *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithVerbose prints failure details under each failing line.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// WithOutput sets the output writer. Output is plain text.
func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.out = output.New(w)
	}
}

// WithWriter sets a preconfigured output writer.
func WithWriter(w *output.Writer) Option {
	return func(c *Checker) {
		c.out = w
	}
}

// WithRoot sets the deployment root that relative manifest paths resolve
// against.
func WithRoot(dir string) Option {
	return func(c *Checker) {
		c.root = dir
	}
}

// WithInterpreter replaces the interpreter probe.
func WithInterpreter(i interp.Interpreter) Option {
	return func(c *Checker) {
		c.interp = i
	}
}

// WithSourceValidator replaces the entry-point parser.
func WithSourceValidator(v SourceValidator) Option {
	return func(c *Checker) {
		c.syntax = v
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// New creates a Checker for manifest with the given options.
func New(manifest *config.Manifest, opts ...Option) *Checker {
	c := &Checker{
		manifest: manifest,
		root:     ".",
		out:      output.New(os.Stdout),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.interp == nil {
		c.interp = interp.NewPython(manifest.Interpreter.Command, interp.WithLogger(c.logger))
	}
	if c.syntax == nil {
		sc := syntax.NewChecker()
		c.syntax = sc
		c.langs = sc.Registry()
	}
	if c.langs == nil {
		c.langs = syntax.DefaultRegistry()
	}
	return c
}

// Checks returns the verification sequence in execution order.
func (c *Checker) Checks() []Check {
	return []Check{
		{Name: NameRuntime, Run: c.CheckRuntime},
		{Name: NameDependencies, Run: c.CheckDependencies},
		{Name: NamePaths, Run: c.CheckPaths},
		{Name: NameEntryPoint, Run: c.CheckEntryPoint},
		{Name: NameDataFiles, Run: c.CheckDataFiles},
	}
}

// RunAll runs every check once, in order. If ctx is cancelled the run
// stops before the next check and ErrInterrupted is returned with the
// results gathered so far.
func (c *Checker) RunAll(ctx context.Context) (Report, error) {
	var report Report

	for _, chk := range c.Checks() {
		if ctx.Err() != nil {
			return report, apperrors.ErrInterrupted
		}

		start := time.Now()
		passed := chk.Run(ctx)
		c.logger.Debug("check complete",
			slog.String("check", chk.Name),
			slog.Bool("passed", passed),
			slog.Duration("duration", time.Since(start)))

		// A check cut short by cancellation has no meaningful result.
		if ctx.Err() != nil {
			return report, apperrors.ErrInterrupted
		}
		report.Results = append(report.Results, CheckResult{Name: chk.Name, Passed: passed})
	}

	return report, nil
}

// Verify prints the banner, runs every check and prints the summary.
func (c *Checker) Verify(ctx context.Context) (Report, error) {
	c.PrintBanner()

	report, err := c.RunAll(ctx)
	if err != nil {
		return report, err
	}

	c.PrintSummary(report)
	c.logger.Info("verification finished",
		slog.Int("passed", report.Passed()),
		slog.Int("total", len(report.Results)),
		slog.Bool("ok", report.AllPassed()))
	return report, nil
}

// PrintBanner prints the heading naming the application.
func (c *Checker) PrintBanner() {
	c.out.Rule()
	c.out.Indent(c.manifest.Name + " - Setup Verification")
	if c.manifest.Motto != "" {
		c.out.Indent("'" + c.manifest.Motto + "'")
	}
	c.out.Rule()
}

// PrintSummary prints the per-check verdicts, the overall banner and the
// follow-up guidance.
func (c *Checker) PrintSummary(report Report) {
	c.out.Header("Verification Summary")
	c.out.Newline()

	rows := make([]output.Row, 0, len(report.Results))
	for _, res := range report.Results {
		rows = append(rows, output.Row{Name: res.Name, Passed: res.Passed})
	}
	c.out.Summary(rows)

	c.out.Newline()
	c.out.Rule()

	guide := c.manifest.Guidance
	if report.AllPassed() {
		c.out.Banner(true, "All checks passed! The application is ready to run.")
		c.out.Rule()
		if len(guide.Launch) > 0 {
			c.out.Newline()
			c.out.Line("To start the application, run:")
			c.out.List(guide.Launch, false)
		}
		if len(guide.Credentials) > 0 {
			c.out.Newline()
			c.out.Line("Default credentials:")
			c.out.List(guide.Credentials, false)
		}
	} else {
		c.out.Banner(false, "Some checks failed. Please review the issues above.")
		c.out.Rule()
		if len(guide.Fixes) > 0 {
			c.out.Newline()
			c.out.Line("Common fixes:")
			c.out.List(guide.Fixes, true)
		}
	}
	c.out.Newline()
}

// resolve returns p relative to the deployment root. Manifest paths use
// forward slashes.
func (c *Checker) resolve(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.root, p)
}

// detail prints err indented under the preceding line in verbose mode.
func (c *Checker) detail(err error) {
	if c.verbose && err != nil {
		c.out.Indent(apperrors.FormatDetail(err))
	}
}
