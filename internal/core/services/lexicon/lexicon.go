// Package lexicon provides the word lists that lexicon-driven steps depend on.
//
// Stopword lists use the NLTK corpus layout: one file per language, named after
// the language, one word per line. The english and spanish lists are compiled
// into the binary; other languages can be served from an NLTK data directory.
package lexicon

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

//go:embed data/*
var embeddedData embed.FS

// Provider supplies stopword lists by language name (e.g. "english").
type Provider interface {
	// Stopwords returns the stopword list for language. The returned slice is owned by the caller.
	Stopwords(language string) ([]string, error)

	// Languages returns the languages this provider can serve, sorted.
	Languages() []string
}

// FSProvider serves NLTK-layout stopword files from a filesystem and caches each
// list after the first read.
type FSProvider struct {
	fsys fs.FS
	name string

	mu    sync.RWMutex
	cache map[string][]string
}

var (
	embeddedOnce     sync.Once
	embeddedProvider *FSProvider
)

// Embedded returns the provider backed by the lists compiled into the binary.
func Embedded() *FSProvider {
	embeddedOnce.Do(func() {
		sub, err := fs.Sub(embeddedData, "data")
		if err != nil {
			panic(fmt.Sprintf("lexicon: embedded data missing: %v", err))
		}
		embeddedProvider = NewFSProvider(sub, "embedded")
	})
	return embeddedProvider
}

// NewDirProvider returns a provider reading from an NLTK stopwords directory,
// e.g. ~/nltk_data/corpora/stopwords.
func NewDirProvider(dir string) (*FSProvider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperrors.InvalidConfigWrap(err, "lexicon directory is not readable")
	}
	if !info.IsDir() {
		return nil, apperrors.InvalidConfig(fmt.Sprintf("lexicon path %s is not a directory", dir))
	}
	return NewFSProvider(os.DirFS(dir), dir), nil
}

// NewFSProvider wraps any fs.FS laid out as one file per language.
func NewFSProvider(fsys fs.FS, name string) *FSProvider {
	return &FSProvider{
		fsys:  fsys,
		name:  name,
		cache: make(map[string][]string),
	}
}

// Stopwords implements Provider.
func (p *FSProvider) Stopwords(language string) ([]string, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" || strings.ContainsAny(language, `/\`) {
		return nil, apperrors.InvalidConfig(fmt.Sprintf("invalid stopword language %q", language))
	}

	p.mu.RLock()
	words, ok := p.cache[language]
	p.mu.RUnlock()
	if ok {
		return append([]string(nil), words...), nil
	}

	words, err := p.load(language)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[language] = words
	p.mu.Unlock()

	return append([]string(nil), words...), nil
}

// Languages implements Provider.
func (p *FSProvider) Languages() []string {
	entries, err := fs.ReadDir(p.fsys, ".")
	if err != nil {
		return nil
	}

	languages := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || strings.Contains(entry.Name(), ".") {
			continue
		}
		languages = append(languages, entry.Name())
	}
	sort.Strings(languages)
	return languages
}

func (p *FSProvider) load(language string) ([]string, error) {
	f, err := p.fsys.Open(language)
	if err != nil {
		return nil, apperrors.NotFound(fmt.Sprintf("no stopword list for language %q in %s", language, p.name)).
			WithDetails("available", p.Languages())
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stopwords for %s: %w", language, err)
	}

	return words, nil
}

// Static is an in-memory Provider, handy for tests and for callers that ship
// their own lists.
type Static map[string][]string

// Stopwords implements Provider.
func (s Static) Stopwords(language string) ([]string, error) {
	words, ok := s[strings.ToLower(language)]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("no stopword list for language %q", language))
	}
	return append([]string(nil), words...), nil
}

// Languages implements Provider.
func (s Static) Languages() []string {
	languages := make([]string, 0, len(s))
	for language := range s {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages
}
