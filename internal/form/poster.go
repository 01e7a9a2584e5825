package form

import (
	"errors"

	"filmdesk/internal/imagefile"
	"filmdesk/internal/logging"
	"filmdesk/internal/messages"
)

// SelectPoster stores file as the poster to upload with the submission.
// Files outside the type or size limits are refused with an alert and leave
// the form untouched. The preview is rendered in the background.
func (c *Controller) SelectPoster(file *imagefile.File) error {
	if err := c.limits.Check(file); err != nil {
		var reject *imagefile.RejectError
		if errors.As(err, &reject) && reject.Reason == imagefile.RejectSize {
			c.alert(c.text.Text(messages.ImageTooLarge, c.limits.MaxMegabytes()))
		} else {
			c.alert(c.text.Text(messages.UnsupportedImageType))
		}
		logging.WarnWithContext(c.logger, "poster rejected", "poster_rejected",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "choose a JPEG, PNG, GIF or WEBP image within the size limit"),
			logging.String(logging.FieldImpact, "poster not selected"),
		)
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.poster = file
	c.preview = ""
	c.previewSeq++
	seq := c.previewSeq
	c.pending.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.pending.Done()
		preview := file.DataURL()
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || c.previewSeq != seq {
			return
		}
		c.preview = preview
	}()
	return nil
}

// ClearPoster removes the selected poster file and its preview.
func (c *Controller) ClearPoster() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poster = nil
	c.preview = ""
	c.previewSeq++
}

// Poster returns the selected poster file, if any.
func (c *Controller) Poster() *imagefile.File {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poster
}

// Preview returns the poster preview: a data: URL for a selected file, the
// stored poster URL after a load, or "".
func (c *Controller) Preview() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview
}
