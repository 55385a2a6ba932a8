package domain

import "time"

// ProjectDocument is the full, self-contained input to the scheduler: a
// value the caller owns. Persistence of this document (where the JSON
// blob lives) is explicitly out of scope for this module — callers
// marshal/unmarshal it themselves.
type ProjectDocument struct {
	StartDate time.Time            `json:"start_date"`
	CacheHash uint64               `json:"cache_hash"`
	Roles     []string             `json:"roles"`
	Resources map[string]Resource  `json:"resources"`
	Processes map[string]*Process  `json:"processes"`
}

// NewProjectDocument returns an empty document anchored at startDate.
func NewProjectDocument(startDate time.Time) *ProjectDocument {
	return &ProjectDocument{
		StartDate: startDate,
		Resources: make(map[string]Resource),
		Processes: make(map[string]*Process),
	}
}

// Touch increments CacheHash. Every mutating operation on the document
// (upsert, delete, role/resource edits) must call this — it is the
// content-identity the Schedule Cache (C5) keys off.
func (d *ProjectDocument) Touch() {
	d.CacheHash++
}

// Clone returns a deep-enough copy of the document for a caller that wants
// to mutate it without affecting schedules already computed from the
// original (the scheduler itself never mutates its input).
func (d *ProjectDocument) Clone() *ProjectDocument {
	clone := &ProjectDocument{
		StartDate: d.StartDate,
		CacheHash: d.CacheHash,
		Roles:     append([]string(nil), d.Roles...),
		Resources: make(map[string]Resource, len(d.Resources)),
		Processes: make(map[string]*Process, len(d.Processes)),
	}
	for id, r := range d.Resources {
		roles := make(map[string]struct{}, len(r.Roles))
		for k := range r.Roles {
			roles[k] = struct{}{}
		}
		r.Roles = roles
		clone.Resources[id] = r
	}
	for id, p := range d.Processes {
		history := make([]HistoryEntry, len(p.History))
		for i, e := range p.History {
			history[i] = HistoryEntry{Date: e.Date, Record: cloneRecord(e.Record)}
		}
		clone.Processes[id] = &Process{ID: p.ID, History: history, LastDate: p.LastDate}
	}
	return clone
}

func cloneRecord(r EstimateRecord) EstimateRecord {
	deps := make(map[string]struct{}, len(r.Dependencies))
	for k := range r.Dependencies {
		deps[k] = struct{}{}
	}
	roles := make(map[string]struct{}, len(r.Roles))
	for k := range r.Roles {
		roles[k] = struct{}{}
	}
	commitment := make(map[string]float64, len(r.Commitment))
	for k, v := range r.Commitment {
		commitment[k] = v
	}
	r.Dependencies = deps
	r.Roles = roles
	r.Commitment = commitment
	return r
}
