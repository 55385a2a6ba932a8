// Package timeline reconstructs how a schedule's projected completion has
// evolved over time, by re-running the scheduler once per historical
// as-of date.
package timeline

import (
	"context"
	"sort"
	"time"

	"github.com/alexanderramin/timelines/internal/cpm"
	"github.com/alexanderramin/timelines/internal/domain"
	"github.com/alexanderramin/timelines/internal/graph"
)

// Point is one (as-of date, projected completion) sample.
type Point struct {
	AsOf       time.Time
	ProjectEnd time.Time
}

// Evolution re-runs the deterministic scheduler at every date in asOfDates
// plus "today" (the caller-supplied now), restricted to terminals when
// non-empty, and returns one Point per date where every requested terminal
// was present in the as-of graph. Dates for which a terminal is undefined
// are dropped rather than erroring, as are dates whose as-of graph has no
// processes.
func Evolution(ctx context.Context, doc *domain.ProjectDocument, asOfDates []time.Time, now time.Time, terminals []string) ([]Point, error) {
	dates := append([]time.Time(nil), asOfDates...)
	dates = append(dates, now)
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var points []Point
	for _, d := range dates {
		select {
		case <-ctx.Done():
			return nil, domain.ErrCancelRequested
		default:
		}

		g := graph.Build(doc, d)
		if len(terminals) > 0 {
			restricted, unavailable := g.Restrict(terminals)
			if len(unavailable) > 0 {
				continue
			}
			g = restricted
		}
		if len(g.Nodes) == 0 {
			continue
		}

		sched, err := cpm.Run(ctx, g, doc.StartDate, cpm.ScenarioNormal)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{AsOf: d, ProjectEnd: sched.ProjectEnd})
	}
	return points, nil
}
