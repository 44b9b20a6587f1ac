package repo

import (
	"sync"

	"github.com/grove-vcs/grove/modules/cst"
)

// ParserFunc turns raw source into its concrete syntax tree. A backend
// registers one per grammar name (the names modules/linguist hands out)
// so the tree pipeline can be exercised without internal/repo itself
// knowing anything about any particular grammar.
type ParserFunc func(source []byte) (cst.RCST, error)

// parserRegistry is the process-wide set of grammars the tree pipeline
// can actually parse. Recognizing a language (modules/linguist) is
// necessary but not sufficient: only a registered grammar can take the
// structural-diff path, everything else falls back to the line pipeline.
type parserRegistry struct {
	mu      sync.RWMutex
	parsers map[string]ParserFunc
}

var defaultRegistry = &parserRegistry{parsers: make(map[string]ParserFunc)}

// RegisterParser wires a grammar's parser into the default registry.
func RegisterParser(language string, fn ParserFunc) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.parsers[language] = fn
}

// UnregisterParser removes a grammar's parser, mainly useful for tests
// that register a synthetic one.
func UnregisterParser(language string) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	delete(defaultRegistry.parsers, language)
}

// lookupParser returns the parser registered for language, if any.
func lookupParser(language string) (ParserFunc, bool) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	fn, ok := defaultRegistry.parsers[language]
	return fn, ok
}
