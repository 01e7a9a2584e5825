package form

import (
	"context"
	"fmt"

	"filmdesk/internal/draft"
	"filmdesk/internal/imagefile"
	"filmdesk/internal/logging"
	"filmdesk/internal/messages"
)

type uploadTarget struct {
	name    string
	failure messages.Key
	apply   func(d draft.Draft, url string) (draft.Draft, error)
}

// UploadDirectorImage uploads file in the background and stores its URL as
// the director image.
func (c *Controller) UploadDirectorImage(file *imagefile.File) {
	c.startUpload(file, uploadTarget{
		name:    "director",
		failure: messages.UploadDirectorFailed,
		apply: func(d draft.Draft, url string) (draft.Draft, error) {
			return d.SetField("directorImageUrl", url)
		},
	})
}

// UploadAssistantDirectorImage uploads file in the background and stores its
// URL as the assistant director image.
func (c *Controller) UploadAssistantDirectorImage(file *imagefile.File) {
	c.startUpload(file, uploadTarget{
		name:    "assistant_director",
		failure: messages.UploadAssistantFailed,
		apply: func(d draft.Draft, url string) (draft.Draft, error) {
			return d.SetField("assistantDirectorImageUrl", url)
		},
	})
}

// UploadCastImage uploads file in the background and stores its URL on cast
// entry i. If that entry was removed meanwhile the result is dropped.
func (c *Controller) UploadCastImage(i int, file *imagefile.File) {
	c.startUpload(file, uploadTarget{
		name:    fmt.Sprintf("cast[%d]", i),
		failure: messages.UploadCastFailed,
		apply: func(d draft.Draft, url string) (draft.Draft, error) {
			return d.SetCastImage(i, url)
		},
	})
}

func (c *Controller) startUpload(file *imagefile.File, target uploadTarget) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	ctx := c.withFields(c.baseCtx, c.id, c.mode)
	c.pending.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.pending.Done()
		logger := logging.WithContext(ctx, c.logger).With(logging.String("image", target.name))

		url, err := c.upload(ctx, file)
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug("upload abandoned after close", logging.Error(err))
				return
			}
			logging.ErrorWithContext(logger, "image upload failed", "upload_failed",
				logging.Error(err),
				logging.ErrorKind(err),
				logging.String(logging.FieldErrorHint, "retry the upload or paste an image URL"),
			)
			c.alert(c.text.Text(target.failure))
			return
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			logger.Debug("upload completed after close; dropped")
			return
		}
		next, applyErr := target.apply(c.draft, url)
		if applyErr == nil {
			c.draft = next
		}
		c.mu.Unlock()

		if applyErr != nil {
			logging.WarnWithContext(logger, "upload result dropped", "upload_dropped",
				logging.Error(applyErr),
				logging.String(logging.FieldErrorHint, "the cast row was removed before the upload finished"),
				logging.String(logging.FieldImpact, "uploaded image not attached"),
			)
			return
		}
		logger.Info("image uploaded",
			logging.String(logging.FieldEventType, "upload_completed"),
			logging.String("url", url),
		)
	}()
}

func (c *Controller) upload(ctx context.Context, file *imagefile.File) (string, error) {
	if err := c.uploads.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.uploads.Release(1)
	return c.uploader.UploadImage(ctx, file)
}
