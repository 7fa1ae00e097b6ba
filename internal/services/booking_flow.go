package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"speakerbooking/internal/domain"
)

// StepGatePolicy decides whether Next requires the current step to be valid.
type StepGatePolicy int

const (
	// GateRelaxed lets the organizer move forward with invalid fields; everything is
	// checked on submit.
	GateRelaxed StepGatePolicy = iota
	// GateStrict blocks Next while the current step has field errors.
	GateStrict
)

// BookingFlowConfig tunes booking flows.
type BookingFlowConfig struct {
	// SubmitTimeout bounds the transport call. Zero means no timeout beyond the caller's ctx.
	SubmitTimeout time.Duration
	Gate          StepGatePolicy
}

const (
	reasonTimeout  = "submission timed out, please try again"
	reasonFailed   = "failed to submit booking request, please try again"
	reasonDateGone = "the selected date is no longer available"
)

// BookingFlow is one organizer's multi-step booking form for one speaker. It is safe for
// concurrent use; at most one submission is in flight at a time.
type BookingFlow struct {
	store     domain.AvailabilityStore
	transport domain.SubmissionTransport
	cfg       BookingFlowConfig
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time

	mu      sync.Mutex
	step    domain.BookingStep
	state   domain.FlowState
	draft   *domain.BookingRequest
	errors  domain.ValidationResult
	outcome *domain.BookingOutcome
	touched time.Time
}

// NewBookingFlow opens a flow on the first step for draft.
func NewBookingFlow(draft *domain.BookingRequest, store domain.AvailabilityStore, transport domain.SubmissionTransport, cfg BookingFlowConfig, logger *slog.Logger) *BookingFlow {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	f := &BookingFlow{
		store:     store,
		transport: transport,
		cfg:       cfg,
		logger:    logger,
		tracer:    otel.Tracer("speakerbooking/booking"),
		now:       time.Now,
		step:      domain.StepEventDetails,
		state:     domain.FlowEditing,
		draft:     draft,
		errors:    domain.ValidationResult{},
	}
	f.touched = f.now()
	return f
}

// ID returns the draft id, which also identifies the flow.
func (f *BookingFlow) ID() string {
	return f.draft.ID
}

// editableLocked returns ErrFlowClosed unless the organizer may still change the draft.
func (f *BookingFlow) editableLocked() error {
	switch f.state {
	case domain.FlowEditing, domain.FlowFailed:
		return nil
	default:
		return fmt.Errorf("%w: state %s", domain.ErrFlowClosed, f.state)
	}
}

func (f *BookingFlow) validateLocked(ctx context.Context) (domain.ValidationResult, error) {
	cal, err := f.store.Snapshot(ctx, f.draft.SpeakerID)
	if err != nil {
		return nil, fmt.Errorf("availability snapshot: %w", err)
	}
	f.errors = ValidateBooking(f.draft, cal)
	return f.errors, nil
}

// Next moves to the following step. It is a no-op on the last step.
func (f *BookingFlow) Next(ctx context.Context) (domain.FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return domain.FlowSnapshot{}, err
	}
	f.touched = f.now()
	if f.cfg.Gate == GateStrict {
		res, err := f.validateLocked(ctx)
		if err != nil {
			return domain.FlowSnapshot{}, err
		}
		if len(ErrorsByStep(res)[f.step]) > 0 {
			return f.snapshotLocked(), domain.ErrStepIncomplete
		}
	}
	if i := stepIndex(f.step); i < len(domain.BookingSteps)-1 {
		f.step = domain.BookingSteps[i+1]
	}
	return f.snapshotLocked(), nil
}

// Back moves to the previous step, keeping everything entered. It is a no-op on the first step.
func (f *BookingFlow) Back() (domain.FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return domain.FlowSnapshot{}, err
	}
	f.touched = f.now()
	if i := stepIndex(f.step); i > 0 {
		f.step = domain.BookingSteps[i-1]
	}
	return f.snapshotLocked(), nil
}

// Update applies patch to the draft and re-runs validation for live feedback. Editing a
// failed flow returns it to editing.
func (f *BookingFlow) Update(ctx context.Context, patch domain.BookingRequestPatch) (domain.FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return domain.FlowSnapshot{}, err
	}
	f.touched = f.now()
	patch.Apply(f.draft)
	if f.state == domain.FlowFailed {
		f.state = domain.FlowEditing
		f.outcome = nil
	}
	if _, err := f.validateLocked(ctx); err != nil {
		return domain.FlowSnapshot{}, err
	}
	return f.snapshotLocked(), nil
}

// Validate runs the validator over the whole draft without changing step or state.
func (f *BookingFlow) Validate(ctx context.Context) (domain.ValidationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return nil, err
	}
	return f.validateLocked(ctx)
}

// Submit validates the whole draft and, when valid, hands it to the transport. Calls made
// while a submission is in flight, or after acceptance, return the current snapshot and do
// nothing else. The store is only touched once the transport accepts.
func (f *BookingFlow) Submit(ctx context.Context) (domain.FlowSnapshot, error) {
	f.mu.Lock()
	switch f.state {
	case domain.FlowSubmitting, domain.FlowAccepted:
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, nil
	case domain.FlowCanceled:
		f.mu.Unlock()
		return domain.FlowSnapshot{}, domain.ErrFlowClosed
	}
	if f.step != domain.StepContactInfo {
		f.mu.Unlock()
		return domain.FlowSnapshot{}, domain.ErrSubmitNotAllowed
	}
	f.touched = f.now()
	res, err := f.validateLocked(ctx)
	if err != nil {
		f.mu.Unlock()
		return domain.FlowSnapshot{}, err
	}
	if !res.Valid() {
		f.state = domain.FlowEditing
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, nil
	}
	f.state = domain.FlowSubmitting
	f.outcome = nil
	req := *f.draft
	f.mu.Unlock()

	f.logger.InfoContext(ctx, "booking submitting", "flow_id", req.ID, "speaker_id", req.SpeakerID, "date", req.Date.String())
	outcome, sendErr := f.send(ctx, &req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = f.now()
	switch {
	case sendErr != nil:
		reason := reasonFailed
		if errors.Is(sendErr, context.DeadlineExceeded) {
			reason = reasonTimeout
		}
		f.fail(ctx, domain.Rejected(reason), sendErr)
	case outcome.Status != domain.OutcomeAccepted:
		f.fail(ctx, outcome, nil)
	default:
		if err := f.store.Commit(ctx, req.SpeakerID, req.Date, req.ID); err != nil {
			if errors.Is(err, domain.ErrDateUnavailable) {
				f.errors = domain.ValidationResult{domain.FieldDate: {Code: domain.CodeDateUnavailable, Message: "The selected date is not available for this speaker"}}
				f.fail(ctx, domain.Rejected(reasonDateGone), err)
			} else {
				f.fail(ctx, domain.Rejected(reasonFailed), err)
			}
			break
		}
		f.state = domain.FlowAccepted
		f.outcome = &outcome
		f.logger.InfoContext(ctx, "booking accepted", "flow_id", req.ID, "speaker_id", req.SpeakerID, "date", req.Date.String())
	}
	return f.snapshotLocked(), nil
}

func (f *BookingFlow) fail(ctx context.Context, outcome domain.BookingOutcome, err error) {
	f.state = domain.FlowFailed
	f.outcome = &outcome
	f.logger.WarnContext(ctx, "booking failed", "flow_id", f.draft.ID, "speaker_id", f.draft.SpeakerID, "reason", outcome.Reason, "err", err)
}

// send calls the transport under the submit timeout. A deadline that passes during the call
// is a failure even if the transport reported success.
func (f *BookingFlow) send(ctx context.Context, req *domain.BookingRequest) (domain.BookingOutcome, error) {
	if f.cfg.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.SubmitTimeout)
		defer cancel()
	}
	ctx, span := f.tracer.Start(ctx, "booking.submit",
		trace.WithAttributes(
			attribute.String("booking.id", req.ID),
			attribute.String("speaker.id", req.SpeakerID),
			attribute.String("booking.date", req.Date.String()),
		),
	)
	defer span.End()

	outcome, err := f.transport.Submit(ctx, req)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit failed")
		return domain.BookingOutcome{}, err
	}
	span.SetAttributes(attribute.String("booking.outcome", string(outcome.Status)))
	return outcome, nil
}

// Cancel discards the draft. The availability store is untouched.
func (f *BookingFlow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return err
	}
	f.state = domain.FlowCanceled
	f.draft = &domain.BookingRequest{ID: f.draft.ID, SpeakerID: f.draft.SpeakerID}
	f.errors = domain.ValidationResult{}
	return nil
}

// Snapshot returns a copy of the flow's current state.
func (f *BookingFlow) Snapshot() domain.FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// IdleSince returns when the flow was last used.
func (f *BookingFlow) IdleSince() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched
}

// State returns the current lifecycle state.
func (f *BookingFlow) State() domain.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *BookingFlow) snapshotLocked() domain.FlowSnapshot {
	errs := make(domain.ValidationResult, len(f.errors))
	for k, v := range f.errors {
		errs[k] = v
	}
	snap := domain.FlowSnapshot{
		ID:           f.draft.ID,
		SpeakerID:    f.draft.SpeakerID,
		Step:         f.step,
		State:        f.state,
		Draft:        *f.draft,
		VenueLabel:   f.draft.VenueType.Label(),
		Errors:       errs,
		ErrorsByStep: ErrorsByStep(errs),
	}
	if f.outcome != nil {
		o := *f.outcome
		snap.Outcome = &o
	}
	return snap
}

func stepIndex(step domain.BookingStep) int {
	for i, s := range domain.BookingSteps {
		if s == step {
			return i
		}
	}
	return 0
}
