package preflight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/Aman-CERP/setupcheck/internal/errors"
)

// languagePython selects compilation by the interpreter itself.
const languagePython = "python"

// pythonExts are the extensions inferred as languagePython.
var pythonExts = map[string]bool{".py": true, ".pyw": true}

// CheckEntryPoint verifies that the entry file exists and compiles. Python
// sources are compiled by the configured interpreter; other languages are
// parsed with their registered grammar. A missing file fails without being
// parsed.
func (c *Checker) CheckEntryPoint(ctx context.Context) bool {
	c.out.Header("Checking Application Syntax")

	spec := c.manifest.EntryPoint
	name := filepath.Base(filepath.FromSlash(spec.Path))

	full := c.resolve(spec.Path)
	if info, err := os.Stat(full); err != nil || !info.Mode().IsRegular() {
		c.out.Checkf(false, "%s not found", name)
		return false
	}

	err := c.validateSource(ctx, full, spec.Language)
	if err == nil {
		c.out.Checkf(true, "%s syntax is valid", name)
		return true
	}
	if ctx.Err() != nil {
		return false
	}

	c.logger.Debug("entry point rejected",
		slog.String("path", full),
		slog.Any("error", apperrors.FormatForLog(err)))

	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeSyntax {
		c.out.Checkf(false, "%s has syntax errors:", name)
		c.out.Indent(appErr.Message)
		return false
	}

	c.out.Checkf(false, "%s could not be checked:", name)
	c.out.Indent(apperrors.FormatDetail(err))
	return false
}

// validateSource compiles or parses the file at path. Parser panics are
// returned as internal errors so that they fail this check only.
func (c *Checker) validateSource(ctx context.Context, path, language string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.InternalError(fmt.Sprintf("parser failed: %v", r), nil)
		}
	}()

	if language == "" {
		lang, ok := c.languageForPath(path)
		if !ok {
			return apperrors.New(apperrors.ErrCodeUnsupportedLanguage,
				fmt.Sprintf("no grammar for %s", filepath.Base(path)), nil)
		}
		language = lang
	}

	if strings.EqualFold(language, languagePython) {
		return c.interp.CompileFile(ctx, path)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return apperrors.InternalError("failed to read entry file", err)
	}

	return c.syntax.Check(ctx, src, language)
}

func (c *Checker) languageForPath(path string) (string, bool) {
	if pythonExts[strings.ToLower(filepath.Ext(path))] {
		return languagePython, true
	}
	return c.langs.LanguageForPath(path)
}
