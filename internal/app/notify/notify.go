// Package notify delivers applicant confirmation emails off the request
// path. The Redis-backed dispatcher queues messages and a worker drains
// them with bounded retries; the sync dispatcher is the single-attempt
// fallback used when no Redis is configured. Delivery is best effort
// either way: a lost email never fails a submission.
package notify

import (
	"context"
	"time"

	"github.com/spesuez/recruitment/internal/pkg/email"
)

// ConfirmationMessage is one queued confirmation email.
type ConfirmationMessage struct {
	ApplicationID int64                    `json:"applicationId"`
	Attempt       int                      `json:"attempt"`
	Summary       email.ApplicationSummary `json:"summary"`
}

// Dispatcher hands a confirmation message over for delivery.
type Dispatcher interface {
	// DispatchConfirmation accepts the message for delivery. An error
	// means the message could not even be accepted; callers log it and
	// move on.
	DispatchConfirmation(ctx context.Context, msg ConfirmationMessage) error
}

// backoffSchedule spaces out redelivery attempts of a failed message.
var backoffSchedule = []time.Duration{
	5 * time.Second,
	30 * time.Second,
	2 * time.Minute,
}
