// Package signatures holds the known-bad name patterns, registry markers and
// content hashes the scanners match against. The store is populated before a
// scan starts and read-only afterwards, so concurrent readers need no
// locking; the mutex only guards hash merges between runs.
package signatures

import (
	"strings"
	"sync"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
)

// MatchKind says how a signature's pattern is compared.
type MatchKind string

const (
	MatchName MatchKind = "name" // case-insensitive substring
	MatchHash MatchKind = "hash" // exact SHA-256 hex digest
)

// Signature is one known-bad entry. Iteration order matters: the first
// declared signature that matches wins, ties are never re-ranked.
type Signature struct {
	Kind        MatchKind     `yaml:"kind"`
	Pattern     string        `yaml:"pattern"`
	Category    core.Category `yaml:"category"`
	Severity    core.Severity `yaml:"severity"`
	Description string        `yaml:"description"`
}

// Store answers point-lookup and pattern-match queries for every scanner.
type Store struct {
	processes []Signature
	filenames []Signature
	registry  []Signature

	mu     sync.RWMutex
	hashes map[string]string // sha256 hex -> malware name

	adwareMarkers []string
}

// NewStore returns a store seeded with the builtin database.
func NewStore() *Store {
	s := &Store{hashes: make(map[string]string)}
	s.processes = builtinProcessSignatures()
	s.filenames = builtinFilenameSignatures()
	s.registry = builtinRegistrySignatures()
	s.adwareMarkers = builtinAdwareMarkers()
	for digest, name := range builtinBadHashes() {
		s.hashes[strings.ToLower(digest)] = name
	}
	return s
}

func matchFirst(sigs []Signature, text string) *Signature {
	lower := strings.ToLower(text)
	for i := range sigs {
		if strings.Contains(lower, strings.ToLower(sigs[i].Pattern)) {
			return &sigs[i]
		}
	}
	return nil
}

// MatchProcess looks a process name up against the known-bad process list.
func (s *Store) MatchProcess(name string) *Signature {
	return matchFirst(s.processes, name)
}

// MatchFilename checks a file or registry value name against the filename
// pattern list. First declared match wins.
func (s *Store) MatchFilename(name string) *Signature {
	return matchFirst(s.filenames, name)
}

// MatchRegistryValue checks registry value content against the suspicious
// command-line pattern list.
func (s *Store) MatchRegistryValue(value string) *Signature {
	return matchFirst(s.registry, value)
}

// MatchHashDigest reports whether digest is a known-malware hash and, if so,
// the malware name. Comparison is exact over the lowercase hex digest.
func (s *Store) MatchHashDigest(digest string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.hashes[strings.ToLower(digest)]
	return name, ok
}

// MergeHashes adds known-bad hashes, e.g. from an external definitions file.
// Not safe to call while a scan is in flight by contract; the lock only
// protects merges between runs.
func (s *Store) MergeHashes(bad map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for digest, name := range bad {
		s.hashes[strings.ToLower(digest)] = name
	}
}

// AdwareMarkers returns the substrings the browser-extension scanner looks
// for inside manifests.
func (s *Store) AdwareMarkers() []string {
	return s.adwareMarkers
}

// HashCount reports how many known-bad hashes are loaded.
func (s *Store) HashCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hashes)
}
