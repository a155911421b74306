package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/agbru/secretsanta/internal/delivery"
	apperrors "github.com/agbru/secretsanta/internal/errors"
	"github.com/agbru/secretsanta/internal/generator"
	"github.com/agbru/secretsanta/internal/logging"
	"github.com/agbru/secretsanta/internal/slot"
)

// ErrBusy is returned when an action is attempted while a request is in flight.
var ErrBusy = errors.New("a submission is already in progress")

// ErrUnknownSlot is returned by Select for an unrecognized slot identifier.
var ErrUnknownSlot = errors.New("unknown file slot")

// Orchestrator owns the submission state. It is safe for concurrent use.
//
// Lock order is mu then pubMu. Subscribers run with pubMu held and must not
// call Select, Submit or Reset synchronously.
type Orchestrator struct {
	gen      Generator
	del      Deliverer
	recorder Recorder
	logger   logging.Logger

	employees *slot.FileSlot
	lastYear  *slot.FileSlot

	mu      sync.Mutex
	phase   Phase
	reason  string
	message string
	outcome delivery.GenerationOutcome
	seq     uint64

	pubMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// New creates an Orchestrator in the Idle phase with two empty slots.
func New(gen Generator, del Deliverer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:       gen,
		del:       del,
		recorder:  NullRecorder{},
		logger:    logging.Nop(),
		employees: slot.New(slot.Employees),
		lastYear:  slot.New(slot.LastYear),
		subs:      make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Subscribe registers fn to receive every published snapshot, in transition
// order. The returned function removes the subscription.
func (o *Orchestrator) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	o.pubMu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = fn
	o.pubMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.pubMu.Lock()
			delete(o.subs, id)
			o.pubMu.Unlock()
		})
	}
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Select offers candidate to the slot identified by slotID.
//
// A rejected candidate moves the orchestrator to Invalid and leaves the slot
// as it was. An accepted candidate clears an Invalid or Failed banner; a
// Succeeded outcome stays visible.
func (o *Orchestrator) Select(slotID string, candidate *slot.Candidate) (Snapshot, error) {
	target, err := o.slotFor(slotID)
	if err != nil {
		return o.Snapshot(), err
	}

	o.mu.Lock()
	if o.phase == Pending {
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap, ErrBusy
	}

	if _, err := target.Select(candidate); err != nil {
		o.logger.Debug("file rejected", logging.String("slot", target.ID()), logging.Err(err))
		o.setLocked(Invalid, apperrors.UserMessage(err))
		return o.publishAndUnlock(), err
	}

	o.logger.Info("file selected", logging.String("slot", target.ID()), logging.String("name", candidate.Name))
	switch o.phase {
	case Invalid, Failed:
		o.setLocked(Idle, "")
	default:
		// Phase is unchanged; the new file name is still a transition.
		o.seq++
	}
	return o.publishAndUnlock(), nil
}

// Reset clears both slots and returns to Idle. It is rejected while a
// request is in flight.
func (o *Orchestrator) Reset() (Snapshot, error) {
	o.mu.Lock()
	if o.phase == Pending {
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap, ErrBusy
	}
	o.employees.Clear()
	o.lastYear.Clear()
	o.setLocked(Idle, "")
	o.logger.Debug("state reset")
	return o.publishAndUnlock(), nil
}

// Submit sends both selections to the generator and delivers the result.
//
// It blocks until the attempt reaches Succeeded or Failed and returns the
// final snapshot together with the attempt's error, if any. With a slot
// empty it moves to Invalid without contacting the service. While another
// submission is pending it returns the current snapshot and ErrBusy without
// sending anything.
func (o *Orchestrator) Submit(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	if o.phase == Pending {
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap, ErrBusy
	}

	emp, empOK := o.employees.Selection()
	last, lastOK := o.lastYear.Selection()
	if !empOK || !lastOK {
		field := slot.Employees
		if empOK {
			field = slot.LastYear
		}
		err := apperrors.NewMissingFileError(field)
		o.setLocked(Invalid, apperrors.UserMessage(err))
		snap := o.publishAndUnlock()
		o.recorder.ObserveSubmission(OutcomeInvalid, 0, 0)
		return snap, err
	}

	o.setLocked(Pending, "")
	o.publishAndUnlock()

	start := time.Now()
	resp, err := o.gen.Generate(ctx, generator.Request{Employees: emp, LastYear: last})
	if err != nil {
		return o.fail(err, outcomeLabel(err), time.Since(start), 0)
	}

	out, err := o.del.Deliver(delivery.Payload{
		Data:       resp.Data,
		HasMatches: resp.HasMatches,
		RequestID:  resp.RequestID,
	})
	if err != nil {
		return o.fail(err, OutcomeDeliveryError, time.Since(start), len(resp.Data))
	}

	o.mu.Lock()
	o.setLocked(Succeeded, "")
	o.outcome = out
	snap := o.publishAndUnlock()
	o.recorder.ObserveSubmission(OutcomeSucceeded, time.Since(start), len(resp.Data))
	o.logger.Info("assignments generated",
		logging.String("request_id", out.RequestID),
		logging.String("path", out.Path),
		logging.Bool("has_matches", out.HasMatches),
		logging.String("content_type", resp.ContentType),
		logging.Int64("bytes", out.Size),
		logging.Uint64("seq", snap.Seq),
	)
	return snap, nil
}

func (o *Orchestrator) fail(err error, label string, elapsed time.Duration, size int) (Snapshot, error) {
	o.logger.Error("submission failed", err, logging.String("outcome", label))
	o.mu.Lock()
	o.setLocked(Failed, apperrors.UserMessage(err))
	snap := o.publishAndUnlock()
	o.recorder.ObserveSubmission(label, elapsed, size)
	return snap, err
}

func outcomeLabel(err error) string {
	if apperrors.IsContextError(err) {
		return OutcomeCanceled
	}
	var svcErr apperrors.ServiceError
	if errors.As(err, &svcErr) {
		return OutcomeServiceError
	}
	return OutcomeTransportError
}

func (o *Orchestrator) slotFor(id string) (*slot.FileSlot, error) {
	switch id {
	case slot.Employees:
		return o.employees, nil
	case slot.LastYear:
		return o.lastYear, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, id)
	}
}

// setLocked moves to phase, dropping the payload of the previous phase.
// text is the Invalid reason or the Failed message. Callers hold mu.
func (o *Orchestrator) setLocked(phase Phase, text string) {
	o.phase = phase
	o.reason, o.message = "", ""
	o.outcome = delivery.GenerationOutcome{}
	switch phase {
	case Invalid:
		o.reason = text
	case Failed:
		o.message = text
	}
	o.seq++
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:         o.phase,
		Reason:        o.reason,
		Message:       o.message,
		Outcome:       o.outcome,
		EmployeesFile: o.employees.Name(),
		LastYearFile:  o.lastYear.Name(),
		Seq:           o.seq,
	}
}

// publishAndUnlock snapshots the state, releases mu and notifies subscribers.
// pubMu is taken before mu is released so notifications keep transition order.
func (o *Orchestrator) publishAndUnlock() Snapshot {
	snap := o.snapshotLocked()
	o.pubMu.Lock()
	o.mu.Unlock()
	defer o.pubMu.Unlock()
	for _, fn := range o.subs {
		fn(snap)
	}
	return snap
}
