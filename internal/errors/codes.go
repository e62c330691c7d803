// Package errors provides structured error handling for setupcheck.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Filesystem errors
//   - 3XX: Interpreter and dependency errors
//   - 4XX: Entry-point syntax errors
//   - 5XX: Run-level errors (interruption, internal)
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates manifest configuration errors.
	CategoryConfig Category = "CONFIG"
	// CategoryFilesystem indicates missing or mistyped paths.
	CategoryFilesystem Category = "FILESYSTEM"
	// CategoryRuntime indicates interpreter and dependency errors.
	CategoryRuntime Category = "RUNTIME"
	// CategorySyntax indicates entry-point grammar errors.
	CategorySyntax Category = "SYNTAX"
	// CategoryRun indicates errors that end the whole verification run.
	CategoryRun Category = "RUN"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid = "ERR_101_CONFIG_INVALID"

	// Filesystem errors (200-299)
	ErrCodePathMissing   = "ERR_201_PATH_MISSING"
	ErrCodePathWrongKind = "ERR_202_PATH_WRONG_KIND"

	// Interpreter errors (300-399)
	ErrCodeInterpreterUnavailable = "ERR_301_INTERPRETER_UNAVAILABLE"
	ErrCodeVersionMismatch        = "ERR_302_VERSION_MISMATCH"
	ErrCodeModuleLoad             = "ERR_303_MODULE_LOAD"

	// Syntax errors (400-499)
	ErrCodeSyntax              = "ERR_401_SYNTAX"
	ErrCodeUnsupportedLanguage = "ERR_402_UNSUPPORTED_LANGUAGE"

	// Run errors (500-599)
	ErrCodeInterrupted = "ERR_501_INTERRUPTED"
	ErrCodeInternal    = "ERR_502_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryRun
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_INVALID")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryFilesystem
	case '3':
		return CategoryRuntime
	case '4':
		return CategorySyntax
	default:
		return CategoryRun
	}
}

// isFatalCode reports whether the code ends the whole run rather than a
// single check.
func isFatalCode(code string) bool {
	switch code {
	case ErrCodeConfigInvalid, ErrCodeInterrupted, ErrCodeInternal:
		return true
	default:
		return false
	}
}
