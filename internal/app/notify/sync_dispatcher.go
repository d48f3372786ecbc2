package notify

import (
	"context"

	"github.com/spesuez/recruitment/internal/pkg/email"
	"github.com/spesuez/recruitment/internal/pkg/logger"
)

// SyncDispatcher sends the confirmation email inline, once, with no
// retries. Used when no Redis queue is configured.
type SyncDispatcher struct {
	service email.EmailService
}

// NewSyncDispatcher creates a synchronous dispatcher.
func NewSyncDispatcher(service email.EmailService) *SyncDispatcher {
	return &SyncDispatcher{service: service}
}

// DispatchConfirmation sends the email immediately. The single attempt
// either lands or is logged and forgotten.
func (d *SyncDispatcher) DispatchConfirmation(ctx context.Context, msg ConfirmationMessage) error {
	if err := d.service.SendApplicationConfirmation(msg.Summary); err != nil {
		logger.Error().Err(err).Int64("applicationID", msg.ApplicationID).Msg("Confirmation email failed")
		return err
	}
	logger.Info().Int64("applicationID", msg.ApplicationID).Msg("Confirmation email sent")
	return nil
}
