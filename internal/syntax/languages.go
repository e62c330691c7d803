package syntax

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// LanguageRegistry maps language names and file extensions to grammars.
type LanguageRegistry struct {
	mu          sync.RWMutex
	extToLang   map[string]string          // extension -> language name
	tsLanguages map[string]*sitter.Language // keyed by language name
}

var (
	defaultRegistry     *LanguageRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry of built-in grammars.
func DefaultRegistry() *LanguageRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewLanguageRegistry()
	})
	return defaultRegistry
}

// NewLanguageRegistry creates a registry with go, javascript and typescript
// registered. Python sources are compiled by the interpreter instead.
func NewLanguageRegistry() *LanguageRegistry {
	r := &LanguageRegistry{
		extToLang:   make(map[string]string),
		tsLanguages: make(map[string]*sitter.Language),
	}

	r.Register("go", golang.GetLanguage(), ".go")
	r.Register("javascript", javascript.GetLanguage(), ".js", ".mjs", ".cjs")
	r.Register("typescript", typescript.GetLanguage(), ".ts")

	return r
}

// Register adds a grammar under name for the given extensions.
func (r *LanguageRegistry) Register(name string, lang *sitter.Language, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tsLanguages[name] = lang
	for _, ext := range exts {
		r.extToLang[normalizeExt(ext)] = name
	}
}

// Language returns the grammar registered under name.
func (r *LanguageRegistry) Language(name string) (*sitter.Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lang, ok := r.tsLanguages[strings.ToLower(name)]
	return lang, ok
}

// LanguageForPath infers the language name from a file's extension.
func (r *LanguageRegistry) LanguageForPath(path string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.extToLang[normalizeExt(filepath.Ext(path))]
	return name, ok
}

// Languages returns the registered language names, sorted.
func (r *LanguageRegistry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tsLanguages))
	for name := range r.tsLanguages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
