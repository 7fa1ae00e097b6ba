package services

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"speakerbooking/internal/domain"
)

// BookingFlowManager keeps the open booking flows of the process, keyed by flow id.
type BookingFlowManager struct {
	store     domain.AvailabilityStore
	transport domain.SubmissionTransport
	cfg       BookingFlowConfig
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	mu    sync.Mutex
	flows map[string]*BookingFlow
}

// NewBookingFlowManager returns an empty manager whose flows share store and transport.
func NewBookingFlowManager(store domain.AvailabilityStore, transport domain.SubmissionTransport, cfg BookingFlowConfig, logger *slog.Logger) *BookingFlowManager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BookingFlowManager{
		store:     store,
		transport: transport,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
		flows:     make(map[string]*BookingFlow),
	}
}

// Open starts a flow with an empty draft for speakerID. identity may be nil.
func (m *BookingFlowManager) Open(speakerID string, identity *domain.Identity) *BookingFlow {
	draft := domain.NewBookingRequest(m.newID(), speakerID, m.now())
	if identity != nil {
		draft.OrganizerUserID = identity.UserID
	}
	f := NewBookingFlow(draft, m.store, m.transport, m.cfg, m.logger)
	f.now = m.now
	f.touched = m.now()

	m.mu.Lock()
	m.flows[f.ID()] = f
	m.mu.Unlock()
	return f
}

// Get returns the open flow with id or ErrNotFound.
func (m *BookingFlowManager) Get(id string) (*BookingFlow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flows[id]
	if !ok {
		return nil, fmt.Errorf("booking flow %s: %w", id, domain.ErrNotFound)
	}
	return f, nil
}

// Submit submits flow id and forgets it once accepted.
func (m *BookingFlowManager) Submit(ctx context.Context, id string) (domain.FlowSnapshot, error) {
	f, err := m.Get(id)
	if err != nil {
		return domain.FlowSnapshot{}, err
	}
	snap, err := f.Submit(ctx)
	if err != nil {
		return snap, err
	}
	if snap.State == domain.FlowAccepted {
		m.remove(id)
	}
	return snap, nil
}

// Cancel discards flow id.
func (m *BookingFlowManager) Cancel(id string) error {
	f, err := m.Get(id)
	if err != nil {
		return err
	}
	if err := f.Cancel(); err != nil {
		return err
	}
	m.remove(id)
	return nil
}

// Prune drops flows idle for longer than idle, except those with a submission in flight.
// It returns how many were dropped.
func (m *BookingFlowManager) Prune(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	flows := make(map[string]*BookingFlow, len(m.flows))
	maps.Copy(flows, m.flows)
	m.mu.Unlock()

	var stale []string
	for id, f := range flows {
		if f.State() == domain.FlowSubmitting || !f.IdleSince().Before(cutoff) {
			continue
		}
		stale = append(stale, id)
	}
	if len(stale) == 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range stale {
		if m.flows[id] == flows[id] {
			delete(m.flows, id)
			n++
		}
	}
	if n > 0 {
		m.logger.Info("booking flows pruned", "count", n, "remaining", len(m.flows))
	}
	return n
}

// Len returns the number of open flows.
func (m *BookingFlowManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.flows)
}

func (m *BookingFlowManager) remove(id string) {
	m.mu.Lock()
	delete(m.flows, id)
	m.mu.Unlock()
}
