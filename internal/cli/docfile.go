package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/timelines/internal/domain"
	"github.com/alexanderramin/timelines/internal/graph"
)

// loadDocument reads a domain.ProjectDocument from a JSON file. Document
// persistence is explicitly out of the scheduler's scope —
// the caller owns the blob, and this CLI is one such caller.
func loadDocument(path string) (*domain.ProjectDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: reading document %s: %w", path, err)
	}
	var doc domain.ProjectDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("cli: parsing document %s: %w", path, err)
	}
	return &doc, nil
}

// parseList splits a comma-separated flag value into a trimmed slice,
// returning nil for an empty string (e.g. no terminal restriction
// requested).
func parseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseRollups parses the --rollup flag's "id:label:pid1|pid2;id2:label2:pid3"
// grouping syntax into graph.Rollup values. Semicolons separate rollups,
// colons separate a rollup's id/label/member-list fields, and pipes
// separate the member process ids.
func parseRollups(s string) ([]graph.Rollup, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []graph.Rollup
	for _, group := range strings.Split(s, ";") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		fields := strings.SplitN(group, ":", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("cli: --rollup group %q must be id:label:pid1|pid2", group)
		}
		id, label, members := strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1]), fields[2]
		if id == "" {
			return nil, fmt.Errorf("cli: --rollup group %q missing id", group)
		}
		pids := make([]string, 0)
		for _, pid := range strings.Split(members, "|") {
			pid = strings.TrimSpace(pid)
			if pid != "" {
				pids = append(pids, pid)
			}
		}
		if len(pids) == 0 {
			return nil, fmt.Errorf("cli: --rollup group %q has no member process ids", group)
		}
		out = append(out, graph.Rollup{ID: id, Label: label, ProcessID: pids})
	}
	return out, nil
}
