//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

package orchestration

import (
	"context"
	"time"

	"github.com/agbru/secretsanta/internal/delivery"
	"github.com/agbru/secretsanta/internal/generator"
)

// Generator sends a generation request to the remote service. Errors are
// expected to be apperrors.ServiceError or apperrors.TransportError.
type Generator interface {
	Generate(ctx context.Context, req generator.Request) (generator.Response, error)
}

// Deliverer saves a successful payload for the user.
type Deliverer interface {
	Deliver(payload delivery.Payload) (delivery.GenerationOutcome, error)
}

// Recorder is notified once per finished submission attempt. duration is
// zero for attempts that never reached the network.
type Recorder interface {
	ObserveSubmission(outcome string, duration time.Duration, payloadBytes int)
}

// NullRecorder discards observations.
type NullRecorder struct{}

// ObserveSubmission does nothing.
func (NullRecorder) ObserveSubmission(string, time.Duration, int) {}

// Outcome labels passed to Recorder.
const (
	OutcomeSucceeded      = "succeeded"
	OutcomeInvalid        = "invalid"
	OutcomeServiceError   = "service_error"
	OutcomeTransportError = "transport_error"
	OutcomeDeliveryError  = "delivery_error"
	OutcomeCanceled       = "canceled"
)
