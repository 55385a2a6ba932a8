// Package githubprovider implements tickets.Provider against GitHub
// Issues, an optional swappable adapter. Retries use
// github.com/cenkalti/backoff/v4 for exponential backoff.
package githubprovider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v69/github"

	"github.com/alexanderramin/timelines/internal/domain"
	"github.com/alexanderramin/timelines/internal/tickets"
)

// Config controls retry behavior and request paging.
type Config struct {
	MaxElapsed time.Duration // total time budget for retries per call; 0 uses 30s
	PageSize   int           // 0 uses 100
}

// Provider implements tickets.Provider against the GitHub REST API.
type Provider struct {
	client *github.Client
	cfg    Config
}

// New wraps an http.Client (expected to carry an OAuth2 token via
// oauth2.Transport, set up by the caller) into a Provider. httpClient may
// be nil to use an unauthenticated, rate-limited client.
func New(httpClient *http.Client, cfg Config) *Provider {
	if cfg.MaxElapsed <= 0 {
		cfg.MaxElapsed = 30 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return &Provider{client: github.NewClient(httpClient), cfg: cfg}
}

// retryBackoff allows at most 3 attempts per call (the first try plus 2
// retries), also stopping once cfg.MaxElapsed has passed.
func (p *Provider) retryBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = p.cfg.MaxElapsed
	return backoff.WithContext(backoff.WithMaxRetries(b, 2), ctx)
}

// ListIssues lists the open and closed issues in repo (formatted
// "owner/name") as ticket ids of the form "owner/name#number", optionally
// narrowed by label; assigneeFilter is applied only when it names exactly
// one assignee.
func (p *Provider) ListIssues(ctx context.Context, repo string, labelFilter, assigneeFilter []string) ([]string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Labels:      labelFilter,
		ListOptions: github.ListOptions{PerPage: p.cfg.PageSize},
	}
	if len(assigneeFilter) == 1 {
		opts.Assignee = assigneeFilter[0]
	}

	var ids []string
	for {
		var issues []*github.Issue
		op := func() error {
			var resp *github.Response
			var err error
			issues, resp, err = p.client.Issues.ListByRepo(ctx, owner, name, opts)
			if err != nil {
				return classify(resp, err)
			}
			opts.Page = resp.NextPage
			return nil
		}
		if err := backoff.Retry(op, p.retryBackoff(ctx)); err != nil {
			return nil, &domain.ProviderFailureError{Provider: "github", Cause: err}
		}
		for _, iss := range issues {
			if iss.GetPullRequestLinks() != nil {
				continue // exclude PRs, which GitHub's Issues API also returns
			}
			ids = append(ids, fmt.Sprintf("%s/%s#%d", owner, name, iss.GetNumber()))
		}
		if opts.Page == 0 {
			break
		}
	}
	return ids, nil
}

// GetEvents fetches and translates a ticket's issue-event timeline into
// tickets.Event values.
func (p *Provider) GetEvents(ctx context.Context, ticketID string) ([]tickets.Event, error) {
	owner, name, number, err := splitTicketID(ticketID)
	if err != nil {
		return nil, err
	}

	opts := &github.ListOptions{PerPage: p.cfg.PageSize}
	var out []tickets.Event
	for {
		var events []*github.IssueEvent
		op := func() error {
			var resp *github.Response
			var err error
			events, resp, err = p.client.Issues.ListIssueEvents(ctx, owner, name, number, opts)
			if err != nil {
				return classify(resp, err)
			}
			opts.Page = resp.NextPage
			return nil
		}
		if err := backoff.Retry(op, p.retryBackoff(ctx)); err != nil {
			return nil, &domain.ProviderFailureError{Provider: "github", Cause: err}
		}
		for _, e := range events {
			if ev, ok := translate(e); ok {
				out = append(out, ev)
			}
		}
		if opts.Page == 0 {
			break
		}
	}
	return out, nil
}

func translate(e *github.IssueEvent) (tickets.Event, bool) {
	kind, ok := map[string]tickets.EventKind{
		"labeled":    tickets.EventLabeled,
		"unlabeled":  tickets.EventUnlabeled,
		"assigned":   tickets.EventAssigned,
		"unassigned": tickets.EventUnassigned,
		"closed":     tickets.EventClosed,
		"reopened":   tickets.EventReopened,
	}[e.GetEvent()]
	if !ok {
		return tickets.Event{}, false
	}

	ev := tickets.Event{Kind: kind, CreatedAt: e.GetCreatedAt().Time}
	if e.Label != nil {
		ev.Label = e.Label.GetName()
	}
	if e.Assignee != nil {
		ev.Assignee = e.Assignee.GetLogin()
	}
	return ev, true
}

// ListLabels lists every label defined on repo.
func (p *Provider) ListLabels(ctx context.Context, repo string) ([]string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	opts := &github.ListOptions{PerPage: p.cfg.PageSize}
	var out []string
	for {
		var labels []*github.Label
		op := func() error {
			var resp *github.Response
			var err error
			labels, resp, err = p.client.Issues.ListLabels(ctx, owner, name, opts)
			if err != nil {
				return classify(resp, err)
			}
			opts.Page = resp.NextPage
			return nil
		}
		if err := backoff.Retry(op, p.retryBackoff(ctx)); err != nil {
			return nil, &domain.ProviderFailureError{Provider: "github", Cause: err}
		}
		for _, l := range labels {
			out = append(out, l.GetName())
		}
		if opts.Page == 0 {
			break
		}
	}
	return out, nil
}

// ListTeams lists org teams with access to repo and their members.
func (p *Provider) ListTeams(ctx context.Context, repo string) (map[string][]string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	var teams []*github.Team
	op := func() error {
		var resp *github.Response
		var err error
		teams, resp, err = p.client.Repositories.ListTeams(ctx, owner, name, &github.ListOptions{PerPage: p.cfg.PageSize})
		if err != nil {
			return classify(resp, err)
		}
		return nil
	}
	if err := backoff.Retry(op, p.retryBackoff(ctx)); err != nil {
		return nil, &domain.ProviderFailureError{Provider: "github", Cause: err}
	}

	out := make(map[string][]string, len(teams))
	for _, t := range teams {
		var members []*github.User
		memberOp := func() error {
			var resp *github.Response
			var err error
			members, resp, err = p.client.Teams.ListTeamMembersBySlug(ctx, owner, t.GetSlug(), nil)
			if err != nil {
				return classify(resp, err)
			}
			return nil
		}
		if err := backoff.Retry(memberOp, p.retryBackoff(ctx)); err != nil {
			return nil, &domain.ProviderFailureError{Provider: "github", Cause: err}
		}
		logins := make([]string, 0, len(members))
		for _, m := range members {
			logins = append(logins, m.GetLogin())
		}
		out[t.GetName()] = logins
	}
	return out, nil
}

// classify wraps err as a backoff.PermanentError when the response
// indicates a client error GitHub will never resolve by retrying (4xx
// other than 403 rate-limit/429), so backoff.Retry gives up immediately
// instead of spending its whole elapsed-time budget on a 404.
func classify(resp *github.Response, err error) error {
	if resp == nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return err
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return backoff.Permanent(err)
	}
	return err
}
