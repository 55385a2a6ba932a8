package domain

import "time"

// Role is a registered attention category (e.g. "writer", "reviewer").
// Processes commit attention to roles; resources supply roles.
type Role struct {
	ID string
}

// Resource is a concrete supplier of one or more roles, with a cost model
// used by the demand aggregator (C6) to turn hours into dollars.
type Resource struct {
	ID          string              `json:"id"`
	Roles       map[string]struct{} `json:"roles"`
	StartDate   time.Time           `json:"start_date"`
	Cost        float64             `json:"cost"`          // interpreted per CostPerWeek
	CostPerWeek bool                `json:"cost_per_week"` // true: Cost is $/week; false: Cost is $/hour
}
