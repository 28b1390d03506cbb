// Package flows sequences the build, sponsor, sign, submit and wait steps of
// gasless transactions. Each flow is a straight line of calls: the first
// failing step aborts the flow and is reported as a *StepError.
package flows

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Step names used in StepError.
const (
	StepBuild    = "build"
	StepSign     = "sign"
	StepSponsor  = "sponsor"
	StepSubmit   = "submit"
	StepWait     = "wait"
	StepSession  = "session"
	StepWallet   = "wallet"
	StepDecode   = "decode"
	StepIdentity = "identity"
	StepSalt     = "salt"
	StepProof    = "proof"
)

// ErrTimeout is returned when a submitted transaction is not seen in time.
// The transaction may still land.
var ErrTimeout = errors.New("timed out waiting for transaction")

// StepError reports which step of a flow failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepErr(step string, err error) error {
	return &StepError{Step: step, Err: err}
}

var tracer = otel.Tracer("github.com/chinmay1088/gasline/flows")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
