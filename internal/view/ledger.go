package view

import (
	"context"
	"errors"
	"sync"

	"kra360/internal/domain/performance"
)

var ErrAlreadyDecided = errors.New("request already decided")

// DecisionLedger keeps due-date requests from being decided twice. It is
// shared by every viewer of one process.
type DecisionLedger struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
	decided  map[string]string
}

func NewDecisionLedger() *DecisionLedger {
	return &DecisionLedger{
		inFlight: make(map[string]struct{}),
		decided:  make(map[string]string),
	}
}

// Decide runs send unless requestID is already decided or being decided.
// A failed send releases the request so it can be retried.
func (l *DecisionLedger) Decide(ctx context.Context, requestID string, send func(ctx context.Context) (performance.DueDateChangeRequest, error)) (performance.DueDateChangeRequest, error) {
	l.mu.Lock()
	if _, ok := l.decided[requestID]; ok {
		l.mu.Unlock()
		return performance.DueDateChangeRequest{}, ErrAlreadyDecided
	}
	if _, ok := l.inFlight[requestID]; ok {
		l.mu.Unlock()
		return performance.DueDateChangeRequest{}, ErrAlreadyDecided
	}
	l.inFlight[requestID] = struct{}{}
	l.mu.Unlock()

	result, err := send(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inFlight, requestID)
	if err != nil {
		return performance.DueDateChangeRequest{}, err
	}
	status := result.Status
	if status == "" || status == performance.DueDateStatusPending {
		status = "DECIDED"
	}
	l.decided[requestID] = status
	return result, nil
}

// Observe records requests the backend already reports as terminal.
func (l *DecisionLedger) Observe(requests []performance.DueDateChangeRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, request := range requests {
		if request.ID != "" && !request.Pending() {
			l.decided[request.ID] = request.Status
		}
	}
}

// Decided reports whether requestID has a recorded decision.
func (l *DecisionLedger) Decided(requestID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.decided[requestID]
	return ok
}
