package form

import (
	"context"
	"errors"
	"strings"

	"filmdesk/internal/catalog"
	"filmdesk/internal/draft"
	"filmdesk/internal/imagefile"
	"filmdesk/internal/logging"
	"filmdesk/internal/messages"
	"filmdesk/internal/notifications"
)

// Outcome describes a settled submission.
type Outcome struct {
	State State
	Mode  Mode
	// Work is the saved work as echoed by the API; it may be nil when the
	// response carried no body.
	Work *catalog.Work
	// Multipart reports whether the poster file was sent with the request.
	Multipart bool
}

// Submit validates, normalizes, and sends the draft in exactly one API call.
// Validation failures and a submission already in flight make no call.
// After a successful update the operator is sent back to the list; after a
// successful create the form is reset for the next entry.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if c.state.InFlight() {
		c.mu.Unlock()
		c.alert(c.text.Text(messages.SubmitInFlight))
		return Outcome{State: StateDispatching}, ErrSubmitInFlight
	}
	current, poster, id, mode := c.draft, c.poster, c.id, c.mode
	if err := draft.Validate(current, poster != nil); err != nil {
		c.mu.Unlock()
		c.alert(c.validationMessage(err))
		return Outcome{State: c.State(), Mode: mode}, err
	}
	c.state = StateNormalizing
	payload := draft.Normalize(current)
	c.state = StateDispatching
	c.mu.Unlock()

	ctx = c.withFields(ctx, id, mode)
	logger := logging.WithContext(ctx, c.logger)
	outcome := Outcome{Mode: mode, Multipart: poster != nil}
	logger.Debug("submitting work",
		logging.String(logging.FieldEventType, "submit_started"),
		logging.Bool("multipart", outcome.Multipart),
	)

	work, err := c.dispatch(ctx, id, mode, &payload, poster)
	outcome.Work = work

	if err != nil {
		c.mu.Lock()
		c.state = StateFailed
		if mode == ModeCreate || c.resetOnEditFailure {
			c.resetLocked()
		}
		c.mu.Unlock()
		outcome.State = StateFailed

		logging.ErrorWithContext(logger, "save work failed", "submit_failed",
			logging.Error(err),
			logging.ErrorKind(err),
			logging.String(logging.FieldErrorHint, "check the API response and retry"),
		)
		c.alert(c.failureMessage(err))
		c.publish(ctx, notifications.EventSaveFailed, notifications.Payload{
			"mode":  string(mode),
			"id":    id,
			"error": err.Error(),
		})
		return outcome, err
	}

	event := notifications.Payload{"title": workTitle(&payload), "kind": payload.Type, "id": id}
	if mode == ModeEdit {
		c.mu.Lock()
		c.state = StateUpdated
		c.mu.Unlock()
		outcome.State = StateUpdated
		logger.Info("work updated", logging.String(logging.FieldEventType, "work_updated"))
		c.alert(c.text.Text(messages.WorkUpdated))
		c.publish(ctx, notifications.EventWorkUpdated, event)
		c.toList()
		return outcome, nil
	}

	c.mu.Lock()
	c.state = StateCreated
	c.resetLocked()
	c.mu.Unlock()
	outcome.State = StateCreated
	if work != nil {
		event["id"] = work.Identifier()
	}
	logger.Info("work created",
		logging.String(logging.FieldEventType, "work_created"),
		logging.String(logging.FieldWorkID, event["id"]),
	)
	c.alert(c.text.Text(messages.WorkCreated))
	c.publish(ctx, notifications.EventWorkCreated, event)
	return outcome, nil
}

func (c *Controller) dispatch(ctx context.Context, id string, mode Mode, payload *catalog.Payload, poster *imagefile.File) (*catalog.Work, error) {
	switch {
	case mode == ModeEdit && poster != nil:
		return c.works.UpdateWorkWithImage(ctx, id, payload, poster)
	case mode == ModeEdit:
		return c.works.UpdateWork(ctx, id, payload)
	case poster != nil:
		return c.works.CreateWorkWithImage(ctx, payload, poster)
	default:
		return c.works.CreateWork(ctx, payload)
	}
}

func (c *Controller) publish(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if err := c.notifier.Publish(ctx, event, payload); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "notification failed", "notify_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "operator not notified"),
		)
	}
}

// failureMessage prefers the server's message, then the error text, then
// the generic localized failure.
func (c *Controller) failureMessage(err error) string {
	if message, ok := catalog.ServerMessage(err); ok {
		return message
	}
	if text := strings.TrimSpace(err.Error()); text != "" {
		return text
	}
	return c.text.Text(messages.SaveFailed)
}

func (c *Controller) validationMessage(err error) string {
	var verr *draft.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	var lines []string
	if len(verr.Missing) > 0 {
		lines = append(lines, c.text.Text(messages.RequiredFields, strings.Join(verr.Missing, ", ")))
	}
	if verr.YearOutOfRange {
		lines = append(lines, c.text.Text(messages.YearOutOfRange))
	}
	return strings.Join(lines, "\n")
}

func workTitle(payload *catalog.Payload) string {
	if payload.NameArabic != "" {
		return payload.NameArabic
	}
	return payload.NameEnglish
}
