package interp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	apperrors "github.com/Aman-CERP/setupcheck/internal/errors"
	"github.com/Aman-CERP/setupcheck/internal/logging"
)

//go:generate mockgen -destination=../preflight/mock_interpreter_test.go -package=preflight github.com/Aman-CERP/setupcheck/internal/interp Interpreter

// Interpreter is the capability probe used by the runtime and dependency
// checks.
type Interpreter interface {
	// Version returns the interpreter's MAJOR.MINOR.PATCH version.
	Version(ctx context.Context) (*semver.Version, error)
	// ProbeModule attempts to load the named module. A module that cannot
	// be loaded is reported through ModuleProbe, not as an error; an error
	// means the interpreter itself could not be run.
	ProbeModule(ctx context.Context, name string) (ModuleProbe, error)
	// CompileFile compiles the source file at path without running it. A
	// syntax error is returned as ErrCodeSyntax with "line" and "column"
	// details; any other error means the interpreter could not be run.
	CompileFile(ctx context.Context, path string) error
}

// ModuleProbe is the outcome of one module load attempt.
type ModuleProbe struct {
	Loaded bool
	// Version is empty when the module exposes no version identifier.
	Version string
	// Detail is the interpreter's last error line when the load failed.
	Detail string
}

// HasVersion reports whether the module exposed a version identifier.
func (p ModuleProbe) HasVersion() bool {
	return p.Version != ""
}

const (
	versionScript = `import sys; print("%d.%d.%d" % tuple(sys.version_info[:3]))`

	probeScript = `import importlib, sys
m = importlib.import_module(sys.argv[1])
v = getattr(m, "__version__", None)
print("" if v is None else v)`

	compileScript = `import sys
path = sys.argv[1]
try:
    with open(path, "rb") as f:
        compile(f.read(), path, "exec", dont_inherit=True)
except (SyntaxError, ValueError) as e:
    print("%s\t%s\t%s" % (getattr(e, "lineno", None) or 0, getattr(e, "offset", None) or 0, getattr(e, "msg", None) or e))
    sys.exit(65)`
)

// syntaxErrorStatus is the exit status of compileScript for a source that
// does not compile.
const syntaxErrorStatus = 65

// Python runs probes through a Python interpreter command.
type Python struct {
	command []string
	logger  *slog.Logger
}

var _ Interpreter = (*Python)(nil)

// Option configures a Python probe.
type Option func(*Python)

// WithLogger sets the logger used for probe diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Python) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPython creates a probe for command. The command may carry leading
// arguments, e.g. "py -3".
func NewPython(command string, opts ...Option) *Python {
	p := &Python{
		command: strings.Fields(command),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Command returns the interpreter command line.
func (p *Python) Command() string {
	return strings.Join(p.command, " ")
}

// Version implements Interpreter.
func (p *Python) Version(ctx context.Context) (*semver.Version, error) {
	stdout, _, err := p.run(ctx, "-c", versionScript)
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(string(stdout))
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInterpreterUnavailable,
			fmt.Sprintf("unexpected version output %q", raw), err)
	}

	p.logger.Debug("interpreter version",
		slog.String("command", p.Command()),
		slog.String("version", v.String()))
	return v, nil
}

// ProbeModule implements Interpreter.
func (p *Python) ProbeModule(ctx context.Context, name string) (ModuleProbe, error) {
	stdout, stderr, err := p.run(ctx, "-c", probeScript, name)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := lastLine(stderr)
			p.logger.Debug("module not loadable",
				slog.String("module", name),
				slog.String("detail", detail))
			return ModuleProbe{Loaded: false, Detail: detail}, nil
		}
		return ModuleProbe{}, err
	}

	probe := ModuleProbe{
		Loaded:  true,
		Version: strings.TrimSpace(string(stdout)),
	}
	p.logger.Debug("module loaded",
		slog.String("module", name),
		slog.String("version", probe.Version))
	return probe, nil
}

// CompileFile implements Interpreter.
func (p *Python) CompileFile(ctx context.Context, path string) error {
	stdout, _, err := p.run(ctx, "-c", compileScript, path)
	if err == nil {
		p.logger.Debug("source compiled", slog.String("path", path))
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == syntaxErrorStatus {
		synErr := parseSyntaxError(lastLine(stdout))
		p.logger.Debug("source rejected",
			slog.String("path", path),
			slog.String("error", synErr.Message))
		return synErr
	}
	return err
}

// parseSyntaxError decodes the "lineno<TAB>offset<TAB>msg" line printed by
// compileScript.
func parseSyntaxError(line string) *apperrors.Error {
	var lineNo, col int
	msg := line
	if parts := strings.SplitN(line, "\t", 3); len(parts) == 3 {
		lineNo, _ = strconv.Atoi(parts[0])
		col, _ = strconv.Atoi(parts[1])
		msg = strings.TrimSpace(parts[2])
	}
	if msg == "" {
		msg = "invalid syntax"
	}

	switch {
	case lineNo > 0 && col > 0:
		msg = fmt.Sprintf("line %d, column %d: %s", lineNo, col, msg)
	case lineNo > 0:
		msg = fmt.Sprintf("line %d: %s", lineNo, msg)
	}

	e := apperrors.New(apperrors.ErrCodeSyntax, msg, nil)
	if lineNo > 0 {
		e = e.WithDetail("line", strconv.Itoa(lineNo))
	}
	if col > 0 {
		e = e.WithDetail("column", strconv.Itoa(col))
	}
	return e
}

// run executes the interpreter with args. Cancellation is returned as the
// context's error; a non-zero exit is returned wrapped around the
// *exec.ExitError; a failure to start is ErrCodeInterpreterUnavailable.
func (p *Python) run(ctx context.Context, args ...string) ([]byte, []byte, error) {
	if len(p.command) == 0 {
		return nil, nil, apperrors.New(apperrors.ErrCodeInterpreterUnavailable, "no interpreter command configured", nil)
	}

	argv := append(append([]string{}, p.command[1:]...), args...)
	cmd := exec.CommandContext(ctx, p.command[0], argv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, nil, ctxErr
	}
	if err == nil {
		return stdout.Bytes(), stderr.Bytes(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), stderr.Bytes(), apperrors.New(apperrors.ErrCodeInterpreterUnavailable,
			fmt.Sprintf("%s exited with status %d: %s", p.Command(), exitErr.ExitCode(), lastLine(stderr.Bytes())), err)
	}

	return nil, nil, apperrors.New(apperrors.ErrCodeInterpreterUnavailable,
		fmt.Sprintf("%s could not be started", p.Command()), err).
		WithSuggestion("Install Python 3 or set SETUPCHECK_PYTHON to the interpreter path")
}

// lastLine returns the last non-empty line of out, trimmed.
func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
