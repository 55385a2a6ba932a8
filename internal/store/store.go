// Package store provides the in-memory, versioned process store used by
// the scheduling service. Persistence of the ProjectDocument itself is out
// of scope — callers load/save the document JSON around the store; this
// package only enforces the store-level invariants (no self-cycles among
// direct dependencies, monotonic history, idempotent delete) while the
// document is live in memory.
package store

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/alexanderramin/timelines/internal/domain"
)

// ProcessStore wraps a domain.ProjectDocument with mutation operations
// that keep its Process history and CacheHash invariants intact.
type ProcessStore struct {
	doc *domain.ProjectDocument
}

// New wraps an existing document. The store does not own the document's
// lifetime — callers may still read it directly; they must not mutate
// Processes/Resources outside this package once wrapped.
func New(doc *domain.ProjectDocument) *ProcessStore {
	return &ProcessStore{doc: doc}
}

// Document returns the wrapped document.
func (s *ProcessStore) Document() *domain.ProjectDocument {
	return s.doc
}

// UpsertProcess appends a new HistoryEntry to the process pid (creating
// the process if it does not already exist), dated asOf. It rejects a
// record whose Dependencies would introduce a cycle among the document's
// current processes, walking the direct-dependency graph reachable from
// pid through the candidate's dependency set.
//
// asOf must be >= any existing history date for pid; history is kept in
// insertion order and RecordAsOf relies on that ordering being
// non-decreasing.
func (s *ProcessStore) UpsertProcess(pid string, asOf time.Time, rec domain.EstimateRecord) error {
	for dep := range rec.Dependencies {
		if dep == pid {
			return &domain.CycleDetectedError{ProcessID: pid, Cycle: []string{pid, pid}}
		}
		if cycle := s.findPath(dep, pid); cycle != nil {
			return &domain.CycleDetectedError{ProcessID: pid, Cycle: append(cycle, pid)}
		}
	}

	p, ok := s.doc.Processes[pid]
	if !ok {
		p = &domain.Process{ID: pid}
		s.doc.Processes[pid] = p
	}
	if len(p.History) > 0 && asOf.Before(p.LastDate) {
		return fmt.Errorf("store: process %q: asOf %v precedes last history date %v", pid, asOf, p.LastDate)
	}
	p.History = append(p.History, domain.HistoryEntry{Date: asOf, Record: rec})
	p.LastDate = asOf
	s.doc.Touch()
	return nil
}

// findPath returns a dependency chain from -> ... -> to if one exists
// among the document's current (latest) dependency edges, or nil.
func (s *ProcessStore) findPath(from, to string) []string {
	visited := map[string]bool{}
	var walk func(node string) []string
	walk = func(node string) []string {
		if node == to {
			return []string{node}
		}
		if visited[node] {
			return nil
		}
		visited[node] = true
		p, ok := s.doc.Processes[node]
		if !ok {
			return nil
		}
		rec, ok := p.RecordAsOf(p.LastDate)
		if !ok {
			return nil
		}
		for dep := range rec.Dependencies {
			if path := walk(dep); path != nil {
				return append([]string{node}, path...)
			}
		}
		return nil
	}
	return walk(from)
}

// DeleteProcesses removes the named processes and scrubs them from every
// remaining process's latest dependency set. Idempotent: deleting an
// already-absent pid is not an error.
func (s *ProcessStore) DeleteProcesses(pids []string) {
	doomed := make(map[string]struct{}, len(pids))
	for _, pid := range pids {
		doomed[pid] = struct{}{}
		delete(s.doc.Processes, pid)
	}
	for _, p := range s.doc.Processes {
		if len(p.History) == 0 {
			continue
		}
		last := &p.History[len(p.History)-1]
		for dep := range doomed {
			delete(last.Record.Dependencies, dep)
		}
	}
	s.doc.Touch()
}

// DatesOfPredictionChange returns the sorted, deduplicated set of dates on
// which any process in the document received a new history entry — the
// candidate as-of dates for timeline reconstruction (C7).
func (s *ProcessStore) DatesOfPredictionChange() []time.Time {
	seen := map[time.Time]struct{}{}
	for _, p := range s.doc.Processes {
		for _, e := range p.History {
			seen[e.Date] = struct{}{}
		}
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// tokenSeparators splits a name into whitespace/punctuation-separated
// tokens for symbolify.
var tokenSeparators = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// symbolify derives a symbolic id from a human-readable name: the first
// uppercase initial (or digit) of each whitespace/punctuation-separated
// token, concatenated.
func symbolify(name string) string {
	var b strings.Builder
	for _, tok := range tokenSeparators.Split(name, -1) {
		if tok == "" {
			continue
		}
		r := []rune(tok)[0]
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// PIDFromName derives a fresh symbolic process id from name via
// symbolify, appending the smallest positive integer suffix (starting at
// 2) needed to avoid colliding with an existing process id.
func (s *ProcessStore) PIDFromName(name string) string {
	base := symbolify(name)
	if base == "" {
		base = "p"
	}
	if _, exists := s.doc.Processes[base]; !exists {
		return base
	}
	for suffix := 2; ; suffix++ {
		candidate := fmt.Sprintf("%s%d", base, suffix)
		if _, exists := s.doc.Processes[candidate]; !exists {
			return candidate
		}
	}
}
