// Package memory implements the document store and the query log in
// process memory. It backs local runs and the embedded client when no
// database is configured.
package memory

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain/document"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
)

// Compile-time checks: Store serves both store roles.
var (
	_ db.DocumentStore = (*Store)(nil)
	_ db.QueryLogStore = (*Store)(nil)
)

// indexed is a document with its precomputed lexeme frequencies.
type indexed struct {
	doc      document.Document
	freq     map[string]int // lexeme -> occurrences in title and body
	lowTitle string
	lowBody  string
}

// Store keeps documents and query events in memory. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	an     *analyzer
	docs   []indexed
	events []querylog.Event
	closed bool
}

// New indexes docs and returns a ready store.
func New(docs []document.Document) *Store {
	s := &Store{an: newAnalyzer()}
	for _, d := range docs {
		s.add(d)
	}
	return s
}

// Seed is the YAML layout of a seed file.
type Seed struct {
	Documents []document.Document `yaml:"documents"`
	Queries   []SeedQuery         `yaml:"queries"`
}

// SeedQuery preloads the query log with Count SEARCH events for Text.
type SeedQuery struct {
	Text  string `yaml:"text"`
	Count int    `yaml:"count"`
}

// LoadSeed reads a seed file and builds a store from it.
func LoadSeed(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	s := New(seed.Documents)
	now := time.Now()
	for _, q := range seed.Queries {
		for range q.Count {
			s.events = append(s.events, querylog.NewSearchEvent(q.Text, nil, "", now))
		}
	}
	return s, nil
}

// Add indexes another document.
func (s *Store) Add(d document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(d)
}

func (s *Store) add(d document.Document) {
	freq := make(map[string]int)
	for _, text := range []string{d.Title, d.Body} {
		for _, t := range s.an.tokens(text) {
			if t.lexeme != "" {
				freq[t.lexeme]++
			}
		}
	}
	s.docs = append(s.docs, indexed{
		doc:      d,
		freq:     freq,
		lowTitle: lower(d.Title),
		lowBody:  lower(d.Body),
	})
}

// Events returns a copy of the logged events in append order.
func (s *Store) Events() []querylog.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]querylog.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Ping fails once the store is closed.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &db.Error{Op: db.OpPing, Err: db.ErrNotReady}
	}
	return nil
}

// Close marks the store closed. Data stays readable.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// WaitForReady returns immediately; an in-memory store is ready once built.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}
