package jobs

import (
	"context"

	"crown-hotels-booking/internal/logger"
)

// SendCheckInReminders notifies guests whose confirmed stay starts tomorrow.
func (jr *JobRunner) SendCheckInReminders() error {
	return jr.runWithRecovery(JobSendCheckInReminders, func(ctx context.Context) error {
		sent, err := jr.services.Reminders.SendCheckInReminders(ctx)
		if err != nil {
			return err
		}
		logger.Info("Check-in reminders sent", "count", sent)
		return nil
	})
}
