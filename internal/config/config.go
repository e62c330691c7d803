// Package config holds the verification manifest: the static tables of
// paths, dependencies, data files and guidance text that describe one
// deployment, plus the layered loading of those tables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/Aman-CERP/setupcheck/internal/errors"
	"github.com/Aman-CERP/setupcheck/internal/logging"
)

// Kind is the expected type of a filesystem path.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Default values for the COPP AHP planner deployment.
const (
	DefaultAppDir             = "Ver 6 23 Oct 25 - for CI"
	DefaultInterpreter        = "python3"
	DefaultMinVersion         = "3.8"
	DefaultDependencyManifest = "requirements.txt"
	DefaultSamplePattern      = "*.json"
)

// Environment variables read from the process environment and from .env
// in the deployment root. The process environment wins.
const (
	EnvPython   = "SETUPCHECK_PYTHON"
	EnvLogLevel = "SETUPCHECK_LOG_LEVEL"
	EnvAppDir   = "SETUPCHECK_APP_DIR"
)

// Manifest describes one deployment to verify. Paths are relative to the
// deployment root. A Manifest is built once and not mutated during a run.
type Manifest struct {
	Name  string `yaml:"name"`
	Motto string `yaml:"motto"`

	// AppDir is the application directory; default tables are derived from it.
	AppDir string `yaml:"app_dir"`

	Interpreter        InterpreterSpec  `yaml:"interpreter"`
	Dependencies       []DependencySpec `yaml:"dependencies"`
	DependencyManifest string           `yaml:"dependency_manifest"`
	InstallCommand     string           `yaml:"install_command"`
	Paths              []PathSpec       `yaml:"paths"`
	EntryPoint         EntryPointSpec   `yaml:"entry_point"`
	DataFiles          []DataFileSpec   `yaml:"data_files"`
	Samples            SampleSpec       `yaml:"samples"`
	Guidance           Guidance         `yaml:"guidance"`

	// LogLevel enables structured debug logging when non-empty.
	LogLevel string `yaml:"log_level"`
}

// InterpreterSpec names the interpreter that will run the application.
type InterpreterSpec struct {
	Command string `yaml:"command"`
	// MinVersion is "MAJOR.MINOR"; the accepted range stays within MAJOR.
	MinVersion string `yaml:"min_version"`
}

// DependencySpec is one library that must be importable.
type DependencySpec struct {
	Import string `yaml:"import"`
	Name   string `yaml:"name"`
}

// Label returns the display name, falling back to the import name.
func (d DependencySpec) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Import
}

// PathSpec is one path that must exist with the given kind.
type PathSpec struct {
	Path        string `yaml:"path"`
	Kind        Kind   `yaml:"kind"`
	Description string `yaml:"description"`
}

// EntryPointSpec is the application's primary startup file.
type EntryPointSpec struct {
	Path string `yaml:"path"`
	// Language selects the grammar; inferred from the extension when empty.
	Language string `yaml:"language"`
}

// DataFileSpec is one auxiliary data file that must exist.
type DataFileSpec struct {
	Path        string `yaml:"path"`
	Description string `yaml:"description"`
}

// SampleSpec selects the files counted for the advisory sample check.
type SampleSpec struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"`
	Label   string `yaml:"label"`
}

// Guidance is the text printed after the verdict.
type Guidance struct {
	Launch      []string `yaml:"launch"`
	Credentials []string `yaml:"credentials"`
	Fixes       []string `yaml:"fixes"`
}

// NewManifest returns the built-in manifest for the default app directory.
func NewManifest() *Manifest {
	return DefaultManifest(DefaultAppDir)
}

// DefaultManifest returns the built-in manifest rooted at appDir.
func DefaultManifest(appDir string) *Manifest {
	app := func(name string) string { return path.Join(appDir, name) }

	return &Manifest{
		Name:   "COPP AHP Military Planner",
		Motto:  "To War With Wisdom",
		AppDir: appDir,
		Interpreter: InterpreterSpec{
			Command:    DefaultInterpreter,
			MinVersion: DefaultMinVersion,
		},
		Dependencies: []DependencySpec{
			{Import: "streamlit", Name: "Streamlit"},
			{Import: "plotly", Name: "Plotly"},
			{Import: "pandas", Name: "Pandas"},
			{Import: "openpyxl", Name: "OpenPyXL"},
		},
		DependencyManifest: DefaultDependencyManifest,
		InstallCommand:     "pip3 install -r " + DefaultDependencyManifest,
		Paths: []PathSpec{
			{Path: appDir, Kind: KindDirectory},
			{Path: app("app.py"), Kind: KindFile},
			{Path: app("ahp_backend.py"), Kind: KindFile},
			{Path: app("projects"), Kind: KindDirectory},
			{Path: DefaultDependencyManifest, Kind: KindFile},
			{Path: "run.sh", Kind: KindFile},
			{Path: "README.md", Kind: KindFile},
		},
		EntryPoint: EntryPointSpec{
			Path:     app("app.py"),
			Language: "python",
		},
		DataFiles: []DataFileSpec{
			{Path: app("forces.json"), Description: "Forces configuration"},
			{Path: app("ahp_team.json"), Description: "Team information"},
		},
		Samples: SampleSpec{
			Dir:     app("projects"),
			Pattern: DefaultSamplePattern,
			Label:   "Sample project data",
		},
		Guidance: Guidance{
			Launch: []string{
				"./run.sh        (Linux/Mac)",
				"run.bat         (Windows)",
				"",
				"Or manually:",
				fmt.Sprintf("cd '%s'", appDir),
				"streamlit run app.py",
			},
			Credentials: []string{
				"Control PIN: 9999",
				"Force PINs: 0000",
			},
			Fixes: []string{
				"Install dependencies: pip3 install -r " + DefaultDependencyManifest,
				"Ensure you're in the correct directory",
				"Check that all files were properly cloned",
			},
		},
	}
}

// Load builds the manifest for the deployment rooted at dir.
//
// Precedence (lowest to highest):
//  1. Built-in defaults (DefaultManifest)
//  2. Manifest file (explicit path, or .setupcheck.yaml / .setupcheck.yml in dir)
//  3. .env in dir (SETUPCHECK_* keys only; the process environment is untouched)
//  4. Process environment (SETUPCHECK_*)
func Load(dir, explicitPath string) (*Manifest, error) {
	parsed, err := readManifestFile(dir, explicitPath)
	if err != nil {
		return nil, err
	}

	env, err := readEnv(dir)
	if err != nil {
		return nil, err
	}

	appDir := DefaultAppDir
	if parsed != nil && parsed.AppDir != "" {
		appDir = parsed.AppDir
	}
	if v := env[EnvAppDir]; v != "" {
		appDir = v
	}

	m := DefaultManifest(appDir)
	if parsed != nil {
		m.mergeWith(parsed)
	}
	m.applyEnvOverrides(env)

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// FindManifestFile returns the manifest file in dir, or "" if there is none.
func FindManifestFile(dir string) string {
	for _, name := range []string{".setupcheck.yaml", ".setupcheck.yml"} {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// readManifestFile parses the explicit manifest, or the one found in dir.
// A missing implicit manifest is not an error.
func readManifestFile(dir, explicitPath string) (*Manifest, error) {
	p := explicitPath
	if p == "" {
		p = FindManifestFile(dir)
		if p == "" {
			return nil, nil
		}
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, apperrors.ConfigError(fmt.Sprintf("failed to read manifest %s", p), err)
	}

	var parsed Manifest
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, apperrors.ConfigError(fmt.Sprintf("failed to parse manifest %s", p), err).
			WithSuggestion("Check the YAML syntax of the manifest file")
	}

	return &parsed, nil
}

// readEnv merges SETUPCHECK_* keys from dir/.env with the process
// environment, the latter taking precedence.
func readEnv(dir string) (map[string]string, error) {
	keys := []string{EnvPython, EnvLogLevel, EnvAppDir}
	env := make(map[string]string, len(keys))

	dotenv, err := godotenv.Read(filepath.Join(dir, ".env"))
	switch {
	case err == nil:
		for _, k := range keys {
			if v := strings.TrimSpace(dotenv[k]); v != "" {
				env[k] = v
			}
		}
	case errors.Is(err, fs.ErrNotExist):
		// no .env is fine
	default:
		return nil, apperrors.ConfigError("failed to read .env", err)
	}

	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			env[k] = v
		}
	}

	return env, nil
}

// mergeWith merges non-zero values from other into m.
// Tables are replaced as a whole, never appended.
func (m *Manifest) mergeWith(other *Manifest) {
	if other.Name != "" {
		m.Name = other.Name
	}
	if other.Motto != "" {
		m.Motto = other.Motto
	}
	if other.Interpreter.Command != "" {
		m.Interpreter.Command = other.Interpreter.Command
	}
	if other.Interpreter.MinVersion != "" {
		m.Interpreter.MinVersion = other.Interpreter.MinVersion
	}
	if len(other.Dependencies) > 0 {
		m.Dependencies = other.Dependencies
	}
	if other.DependencyManifest != "" {
		m.DependencyManifest = other.DependencyManifest
	}
	if other.InstallCommand != "" {
		m.InstallCommand = other.InstallCommand
	}
	if len(other.Paths) > 0 {
		m.Paths = other.Paths
	}
	if other.EntryPoint.Path != "" {
		m.EntryPoint = other.EntryPoint
	}
	if len(other.DataFiles) > 0 {
		m.DataFiles = other.DataFiles
	}
	if other.Samples.Dir != "" {
		m.Samples.Dir = other.Samples.Dir
	}
	if other.Samples.Pattern != "" {
		m.Samples.Pattern = other.Samples.Pattern
	}
	if other.Samples.Label != "" {
		m.Samples.Label = other.Samples.Label
	}
	if len(other.Guidance.Launch) > 0 {
		m.Guidance.Launch = other.Guidance.Launch
	}
	if len(other.Guidance.Credentials) > 0 {
		m.Guidance.Credentials = other.Guidance.Credentials
	}
	if len(other.Guidance.Fixes) > 0 {
		m.Guidance.Fixes = other.Guidance.Fixes
	}
	if other.LogLevel != "" {
		m.LogLevel = other.LogLevel
	}
}

// applyEnvOverrides applies SETUPCHECK_* values (highest precedence).
func (m *Manifest) applyEnvOverrides(env map[string]string) {
	if v := env[EnvPython]; v != "" {
		m.Interpreter.Command = v
	}
	if v := env[EnvLogLevel]; v != "" {
		m.LogLevel = v
	}
}

// VersionConstraint returns the accepted interpreter version range:
// at least MinVersion and below the next major version.
func (m *Manifest) VersionConstraint() (*semver.Constraints, error) {
	minVersion, err := semver.NewVersion(m.Interpreter.MinVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid min_version %q: %w", m.Interpreter.MinVersion, err)
	}
	return semver.NewConstraint(fmt.Sprintf(">= %s, < %d.0.0", minVersion, minVersion.Major()+1))
}

// Validate validates the manifest and returns an error if invalid.
func (m *Manifest) Validate() error {
	invalid := func(format string, args ...any) error {
		return apperrors.ConfigError(fmt.Sprintf(format, args...), nil)
	}

	if strings.TrimSpace(m.Interpreter.Command) == "" {
		return invalid("interpreter.command must not be empty")
	}
	if _, err := m.VersionConstraint(); err != nil {
		return apperrors.ConfigError("interpreter.min_version is not a version", err)
	}

	for i, d := range m.Dependencies {
		if strings.TrimSpace(d.Import) == "" {
			return invalid("dependencies[%d].import must not be empty", i)
		}
	}

	for i, p := range m.Paths {
		if p.Path == "" {
			return invalid("paths[%d].path must not be empty", i)
		}
		if p.Kind != KindFile && p.Kind != KindDirectory {
			return invalid("paths[%d].kind must be 'file' or 'directory', got %q", i, p.Kind)
		}
	}

	if m.EntryPoint.Path == "" {
		return invalid("entry_point.path must not be empty")
	}

	for i, d := range m.DataFiles {
		if d.Path == "" {
			return invalid("data_files[%d].path must not be empty", i)
		}
	}

	if m.Samples.Dir != "" {
		if m.Samples.Pattern == "" {
			return invalid("samples.pattern must not be empty when samples.dir is set")
		}
		if _, err := doublestar.Match(m.Samples.Pattern, ""); err != nil {
			return apperrors.ConfigError(fmt.Sprintf("samples.pattern %q is not a valid glob", m.Samples.Pattern), err)
		}
	}

	if m.LogLevel != "" && !logging.ValidLevel(m.LogLevel) {
		return invalid("log_level must be 'debug', 'info', 'warn', or 'error', got %s", m.LogLevel)
	}

	return nil
}

// YAML returns the manifest serialized as YAML.
func (m *Manifest) YAML() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return data, nil
}
