package tickets

import "context"

// Provider is the external Ticket Event Provider contract.
// Implementations talk to whatever source-hosting service backs the
// project's issue tracker; the core reconstruction logic above never
// performs I/O itself.
type Provider interface {
	ListIssues(ctx context.Context, repo string, labelFilter, assigneeFilter []string) ([]string, error)
	GetEvents(ctx context.Context, ticketID string) ([]Event, error)
	ListLabels(ctx context.Context, repo string) ([]string, error)
	ListTeams(ctx context.Context, repo string) (map[string][]string, error)
}
