package service

import "github.com/alexanderramin/timelines/internal/observability"

// useCaseObserverOrNoop lets constructors take
// `observers ...observability.UseCaseObserver` and fall back to a no-op
// without every caller having to pass one.
func useCaseObserverOrNoop(observers []observability.UseCaseObserver) observability.UseCaseObserver {
	for _, o := range observers {
		if o != nil {
			return o
		}
	}
	return observability.NoopUseCaseObserver{}
}
