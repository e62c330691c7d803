package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Aman-CERP/setupcheck/internal/config"
	apperrors "github.com/Aman-CERP/setupcheck/internal/errors"
	"github.com/Aman-CERP/setupcheck/internal/interp"
)

// spyValidator records parse requests.
type spyValidator struct {
	calls     int
	err       error
	panicWith any
}

func (s *spyValidator) Check(_ context.Context, _ []byte, _ string) error {
	s.calls++
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	return s.err
}

func TestCheckRuntime_VersionRange(t *testing.T) {
	tests := []struct {
		version  string
		expected bool
	}{
		{"3.8.0", true},
		{"3.8.10", true},
		{"3.12.1", true},
		{"3.7.9", false},
		{"2.7.18", false},
		{"4.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			// Given: an interpreter reporting the version
			ctrl := gomock.NewController(t)
			mock := NewMockInterpreter(ctrl)
			mock.EXPECT().Version(gomock.Any()).Return(semver.MustParse(tt.version), nil)
			checker, buf := newTestChecker(config.NewManifest(), t.TempDir(), mock)

			// When: checking the runtime
			ok := checker.CheckRuntime(context.Background())

			// Then: the detected version is printed with the verdict
			assert.Equal(t, tt.expected, ok)
			out := buf.String()
			assert.Contains(t, out, "Checking Python Version")
			assert.Contains(t, out, "Python version: "+tt.version)
			if tt.expected {
				assert.Contains(t, out, "✅ Python version is compatible (3.8+)")
			} else {
				assert.Contains(t, out, "❌ Python 3.8 or higher required")
			}
		})
	}
}

func TestCheckRuntime_InterpreterUnavailable(t *testing.T) {
	// Given: an interpreter that cannot be started
	ctrl := gomock.NewController(t)
	mock := NewMockInterpreter(ctrl)
	mock.EXPECT().Version(gomock.Any()).Return(nil,
		apperrors.New(apperrors.ErrCodeInterpreterUnavailable, "python3 could not be started", nil))
	checker, buf := newTestChecker(config.NewManifest(), t.TempDir(), mock)

	// When: checking the runtime
	ok := checker.CheckRuntime(context.Background())

	// Then: the check fails with the reason
	assert.False(t, ok)
	assert.Contains(t, buf.String(), `❌ Could not determine Python version using "python3"`)
	assert.Contains(t, buf.String(), "python3 could not be started")
}

func TestCheckRuntime_VerboseShowsMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockInterpreter(ctrl)
	mock.EXPECT().Version(gomock.Any()).Return(semver.MustParse("3.6.15"), nil)
	checker, buf := newTestChecker(config.NewManifest(), t.TempDir(), mock, WithVerbose(true))

	assert.False(t, checker.CheckRuntime(context.Background()))
	assert.Contains(t, buf.String(), "version 3.6.15 does not satisfy")
}

func TestCheckDependencies_NoShortCircuit(t *testing.T) {
	// Given: two of four modules are unavailable
	ctrl := gomock.NewController(t)
	mock := NewMockInterpreter(ctrl)
	missing := interp.ModuleProbe{Loaded: false, Detail: "ModuleNotFoundError: No module named 'x'"}
	gomock.InOrder(
		mock.EXPECT().ProbeModule(gomock.Any(), "streamlit").Return(interp.ModuleProbe{Loaded: true, Version: "1.28.0"}, nil),
		mock.EXPECT().ProbeModule(gomock.Any(), "plotly").Return(missing, nil),
		mock.EXPECT().ProbeModule(gomock.Any(), "pandas").Return(interp.ModuleProbe{Loaded: true}, nil),
		mock.EXPECT().ProbeModule(gomock.Any(), "openpyxl").Return(missing, nil),
	)
	checker, buf := newTestChecker(config.NewManifest(), t.TempDir(), mock)

	// When: checking dependencies
	ok := checker.CheckDependencies(context.Background())

	// Then: every module is reported and the check fails
	assert.False(t, ok)
	out := buf.String()
	assert.Contains(t, out, "✅ Streamlit is installed (version 1.28.0)")
	assert.Contains(t, out, "❌ Plotly is NOT installed")
	assert.Contains(t, out, "✅ Pandas is installed\n")
	assert.Contains(t, out, "❌ OpenPyXL is NOT installed")
	assert.Contains(t, out, "To install missing dependencies (listed in requirements.txt), run:")
	assert.Contains(t, out, "  pip3 install -r requirements.txt")
	assert.NotContains(t, out, "ModuleNotFoundError")
}

func TestCheckDependencies_AllInstalled(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := config.NewManifest()
	checker, buf := newTestChecker(m, t.TempDir(), healthyDependencies(ctrl, len(m.Dependencies)))

	assert.True(t, checker.CheckDependencies(context.Background()))
	assert.NotContains(t, buf.String(), "To install missing dependencies")
}

func TestCheckDependencies_ProbeErrorFailsEntryOnly(t *testing.T) {
	// Given: the interpreter cannot run for one probe
	ctrl := gomock.NewController(t)
	mock := NewMockInterpreter(ctrl)
	m := config.NewManifest()
	m.Dependencies = []config.DependencySpec{{Import: "yaml", Name: "PyYAML"}, {Import: "json"}}
	mock.EXPECT().ProbeModule(gomock.Any(), "yaml").Return(interp.ModuleProbe{},
		apperrors.New(apperrors.ErrCodeInterpreterUnavailable, "python3 exited with status 2", nil))
	mock.EXPECT().ProbeModule(gomock.Any(), "json").Return(interp.ModuleProbe{Loaded: true, Version: "2.0.9"}, nil)
	checker, buf := newTestChecker(m, t.TempDir(), mock, WithVerbose(true))

	// When: checking dependencies
	ok := checker.CheckDependencies(context.Background())

	// Then: the failure is reported and probing continues
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "❌ PyYAML is NOT installed")
	assert.Contains(t, buf.String(), "python3 exited with status 2")
	assert.Contains(t, buf.String(), "✅ json is installed (version 2.0.9)")
}

func TestCheckDependencies_VerboseShowsLoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockInterpreter(ctrl)
	m := config.NewManifest()
	m.Dependencies = []config.DependencySpec{{Import: "plotly", Name: "Plotly"}}
	mock.EXPECT().ProbeModule(gomock.Any(), "plotly").
		Return(interp.ModuleProbe{Detail: "ModuleNotFoundError: No module named 'plotly'"}, nil)
	checker, buf := newTestChecker(m, t.TempDir(), mock, WithVerbose(true))

	assert.False(t, checker.CheckDependencies(context.Background()))
	assert.Contains(t, buf.String(), "ModuleNotFoundError: No module named 'plotly' (module=plotly)")
}

func healthyDependencies(ctrl *gomock.Controller, n int) *MockInterpreter {
	mock := NewMockInterpreter(ctrl)
	mock.EXPECT().ProbeModule(gomock.Any(), gomock.Any()).
		Return(interp.ModuleProbe{Loaded: true, Version: "1.0.0"}, nil).
		Times(n)
	return mock
}

func TestCheckPaths(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, root string)
		expected bool
		line     string
	}{
		{
			name:     "all present",
			setup:    func(*testing.T, string) {},
			expected: true,
			line:     "✅ File: run.sh",
		},
		{
			name: "missing file",
			setup: func(t *testing.T, root string) {
				require.NoError(t, os.Remove(filepath.Join(root, "README.md")))
			},
			expected: false,
			line:     "❌ File: README.md",
		},
		{
			name: "file where directory expected",
			setup: func(t *testing.T, root string) {
				dir := filepath.Join(root, "app", "projects")
				require.NoError(t, os.RemoveAll(dir))
				writeFile(t, dir, "not a directory")
			},
			expected: false,
			line:     "❌ Directory: app/projects",
		},
		{
			name: "directory where file expected",
			setup: func(t *testing.T, root string) {
				p := filepath.Join(root, "run.sh")
				require.NoError(t, os.Remove(p))
				require.NoError(t, os.Mkdir(p, 0o755))
			},
			expected: false,
			line:     "❌ File: run.sh",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a deployment with the modification applied
			root := t.TempDir()
			m := writeDeployment(t, root)
			tt.setup(t, root)
			checker, buf := newTestChecker(m, root, nil)

			// When: checking paths
			ok := checker.CheckPaths(context.Background())

			// Then: the verdict and line match
			assert.Equal(t, tt.expected, ok)
			assert.Contains(t, buf.String(), tt.line)
		})
	}
}

func TestCheckPaths_EvaluatesEveryEntry(t *testing.T) {
	// Given: an empty deployment root
	checker, buf := newTestChecker(config.DefaultManifest("app"), t.TempDir(), nil)

	// When: checking paths
	ok := checker.CheckPaths(context.Background())

	// Then: every entry is printed as failing
	assert.False(t, ok)
	for _, p := range config.DefaultManifest("app").Paths {
		assert.Contains(t, buf.String(), p.Path)
	}
}

func TestCheckPaths_DescriptionAndVerboseDetail(t *testing.T) {
	m := config.NewManifest()
	m.Paths = []config.PathSpec{{Path: "data", Kind: config.KindDirectory, Description: "Data directory"}}
	checker, buf := newTestChecker(m, t.TempDir(), nil, WithVerbose(true))

	assert.False(t, checker.CheckPaths(context.Background()))
	assert.Contains(t, buf.String(), "❌ Data directory: data")
	assert.Contains(t, buf.String(), "path does not exist (path=data)")
}

func TestCheckEntryPoint_NotFoundDoesNotParse(t *testing.T) {
	// Given: no entry file
	ctrl := gomock.NewController(t)
	spy := &spyValidator{}
	checker, buf := newTestChecker(config.DefaultManifest("app"), t.TempDir(), NewMockInterpreter(ctrl),
		WithSourceValidator(spy))

	// When: checking the entry point
	ok := checker.CheckEntryPoint(context.Background())

	// Then: it fails without compiling or parsing
	assert.False(t, ok)
	assert.Equal(t, 0, spy.calls)
	assert.Contains(t, buf.String(), "❌ app.py not found")
}

func TestCheckEntryPoint_PythonCompiledByInterpreter(t *testing.T) {
	// Given: a Python entry file
	root := t.TempDir()
	m := writeDeployment(t, root)
	ctrl := gomock.NewController(t)
	mock := NewMockInterpreter(ctrl)
	mock.EXPECT().CompileFile(gomock.Any(), filepath.Join(root, "app", "app.py")).Return(nil)
	spy := &spyValidator{}
	checker, buf := newTestChecker(m, root, mock, WithSourceValidator(spy))

	// When: checking the entry point
	ok := checker.CheckEntryPoint(context.Background())

	// Then: the interpreter compiled it and no grammar parse happened
	assert.True(t, ok)
	assert.Equal(t, 0, spy.calls)
	assert.Contains(t, buf.String(), "✅ app.py syntax is valid")
}

func TestCheckEntryPoint_PythonInferredFromExtension(t *testing.T) {
	root := t.TempDir()
	m := config.NewManifest()
	m.EntryPoint = config.EntryPointSpec{Path: "Main.PY"}
	writeFile(t, filepath.Join(root, "Main.PY"), "x = 1\n")
	ctrl := gomock.NewController(t)
	mock := NewMockInterpreter(ctrl)
	mock.EXPECT().CompileFile(gomock.Any(), gomock.Any()).Return(nil)
	checker, _ := newTestChecker(m, root, mock)

	assert.True(t, checker.CheckEntryPoint(context.Background()))
}

func TestCheckEntryPoint_CompileErrorPrinted(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"python 2 print", "print \"hello\"\n", "Missing parentheses in call to 'print'"},
		{"return outside function", "return 1\n", "'return' outside function"},
		{"duplicate argument", "def f(x, x): pass\n", "duplicate argument 'x' in function definition"},
		{"break outside loop", "break\n", "'break' outside loop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: an entry file the interpreter rejects
			root := t.TempDir()
			m := writeDeployment(t, root)
			writeFile(t, filepath.Join(root, "app", "app.py"), tt.source)
			ctrl := gomock.NewController(t)
			mock := NewMockInterpreter(ctrl)
			mock.EXPECT().CompileFile(gomock.Any(), gomock.Any()).Return(compileError(1, 1, tt.message))
			checker, buf := newTestChecker(m, root, mock)

			// When: checking the entry point
			ok := checker.CheckEntryPoint(context.Background())

			// Then: the located message is printed under the failure line
			assert.False(t, ok)
			out := buf.String()
			assert.Contains(t, out, "❌ app.py has syntax errors:")
			assert.Contains(t, out, "\n  line 1, column 1: "+tt.message+"\n")
		})
	}
}

func TestCheckEntryPoint_InterpreterUnavailable(t *testing.T) {
	root := t.TempDir()
	m := writeDeployment(t, root)
	ctrl := gomock.NewController(t)
	mock := NewMockInterpreter(ctrl)
	mock.EXPECT().CompileFile(gomock.Any(), gomock.Any()).
		Return(apperrors.New(apperrors.ErrCodeInterpreterUnavailable, "python3 could not be started", nil))
	checker, buf := newTestChecker(m, root, mock)

	assert.False(t, checker.CheckEntryPoint(context.Background()))
	assert.Contains(t, buf.String(), "❌ app.py could not be checked:")
	assert.Contains(t, buf.String(), "python3 could not be started")
}

func TestCheckEntryPoint_InvalidGoSource(t *testing.T) {
	// Given: a Go entry file with a syntax error
	root := t.TempDir()
	m := config.NewManifest()
	m.EntryPoint = config.EntryPointSpec{Path: "main.go"}
	writeFile(t, filepath.Join(root, "main.go"), "package main\n\nfunc main( {\n")
	ctrl := gomock.NewController(t)
	checker, buf := newTestChecker(m, root, NewMockInterpreter(ctrl))

	// When: checking the entry point
	ok := checker.CheckEntryPoint(context.Background())

	// Then: the grammar error location is printed
	assert.False(t, ok)
	out := buf.String()
	assert.Contains(t, out, "❌ main.go has syntax errors:")
	assert.Regexp(t, `\n  (invalid syntax|missing ".*") at line \d+, column \d+`, out)
}

func TestCheckEntryPoint_InferredLanguage(t *testing.T) {
	// Given: a Go entry file without an explicit language
	root := t.TempDir()
	m := config.NewManifest()
	m.EntryPoint = config.EntryPointSpec{Path: "main.go"}
	writeFile(t, filepath.Join(root, "main.go"), "package main\n\nfunc main() {}\n")
	ctrl := gomock.NewController(t)
	checker, buf := newTestChecker(m, root, NewMockInterpreter(ctrl))

	// When: checking the entry point
	ok := checker.CheckEntryPoint(context.Background())

	// Then: it is parsed with the Go grammar, not compiled by the interpreter
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "✅ main.go syntax is valid")
}

func TestCheckEntryPoint_UnsupportedLanguage(t *testing.T) {
	root := t.TempDir()
	m := config.NewManifest()
	m.EntryPoint = config.EntryPointSpec{Path: "app.rb"}
	writeFile(t, filepath.Join(root, "app.rb"), "puts 1\n")
	ctrl := gomock.NewController(t)
	checker, buf := newTestChecker(m, root, NewMockInterpreter(ctrl))

	assert.False(t, checker.CheckEntryPoint(context.Background()))
	assert.Contains(t, buf.String(), "❌ app.rb could not be checked:")
	assert.Contains(t, buf.String(), "no grammar for app.rb")
}

func TestCheckEntryPoint_ParserPanicFailsCheck(t *testing.T) {
	// Given: a grammar parser that panics
	root := t.TempDir()
	m := config.NewManifest()
	m.EntryPoint = config.EntryPointSpec{Path: "index.js"}
	writeFile(t, filepath.Join(root, "index.js"), "console.log(1);\n")
	spy := &spyValidator{panicWith: "boom"}
	checker, buf := newTestChecker(m, root, nil, WithSourceValidator(spy))

	// When: checking the entry point
	ok := checker.CheckEntryPoint(context.Background())

	// Then: the panic becomes a check failure
	assert.False(t, ok)
	assert.Equal(t, 1, spy.calls)
	assert.Contains(t, buf.String(), "❌ index.js could not be checked:")
	assert.Contains(t, buf.String(), "parser failed: boom")
}

func TestCheckEntryPoint_CompilePanicFailsCheck(t *testing.T) {
	root := t.TempDir()
	m := writeDeployment(t, root)
	ctrl := gomock.NewController(t)
	mock := NewMockInterpreter(ctrl)
	mock.EXPECT().CompileFile(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, string) error {
		panic("boom")
	})
	checker, buf := newTestChecker(m, root, mock)

	assert.False(t, checker.CheckEntryPoint(context.Background()))
	assert.Contains(t, buf.String(), "parser failed: boom")
}

func TestCheckDataFiles_ZeroSamplesDoesNotFail(t *testing.T) {
	// Given: data files present but no sample files
	root := t.TempDir()
	m := writeDeployment(t, root)
	require.NoError(t, os.Remove(filepath.Join(root, "app", "projects", "demo.json")))
	checker, buf := newTestChecker(m, root, nil)

	// When: checking data files
	ok := checker.CheckDataFiles(context.Background())

	// Then: the check passes and the count is advisory
	assert.True(t, ok)
	out := buf.String()
	assert.Contains(t, out, "✅ Forces configuration: app/forces.json")
	assert.Contains(t, out, "✅ Team information: app/ahp_team.json")
	assert.Contains(t, out, "❌ Sample project data: 0 project files found")
}

func TestCheckDataFiles_MissingDataFile(t *testing.T) {
	root := t.TempDir()
	m := writeDeployment(t, root)
	require.NoError(t, os.Remove(filepath.Join(root, "app", "forces.json")))
	checker, buf := newTestChecker(m, root, nil)

	assert.False(t, checker.CheckDataFiles(context.Background()))
	assert.Contains(t, buf.String(), "❌ Forces configuration: app/forces.json")
	assert.Contains(t, buf.String(), "✅ Team information: app/ahp_team.json")
	assert.Contains(t, buf.String(), "✅ Sample project data: 1 project files found")
}

func TestCheckDataFiles_NoSampleDirectory(t *testing.T) {
	root := t.TempDir()
	m := writeDeployment(t, root)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "app", "projects")))
	checker, buf := newTestChecker(m, root, nil)

	assert.True(t, checker.CheckDataFiles(context.Background()))
	assert.NotContains(t, buf.String(), "Sample project data")
}

func TestCountSamples(t *testing.T) {
	tests := []struct {
		pattern  string
		expected int
	}{
		{"*.json", 2},
		{"**/*.json", 3},
		{"*.csv", 0},
		{"*", 3},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			// Given: samples at the top level and in a subdirectory
			root := t.TempDir()
			writeFile(t, filepath.Join(root, "projects", "a.json"), "{}")
			writeFile(t, filepath.Join(root, "projects", "b.json"), "{}")
			writeFile(t, filepath.Join(root, "projects", "notes.txt"), "")
			writeFile(t, filepath.Join(root, "projects", "archive", "c.json"), "{}")

			m := config.NewManifest()
			m.Samples = config.SampleSpec{Dir: "projects", Pattern: tt.pattern}
			checker, _ := newTestChecker(m, root, nil)

			// When: counting samples
			n, ok := checker.CountSamples()

			// Then: only matching regular files are counted
			require.True(t, ok)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestCountSamples_NotConfigured(t *testing.T) {
	m := config.NewManifest()
	m.Samples = config.SampleSpec{}
	checker, _ := newTestChecker(m, t.TempDir(), nil)

	_, ok := checker.CountSamples()
	assert.False(t, ok)
}
