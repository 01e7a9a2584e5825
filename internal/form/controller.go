package form

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"filmdesk/internal/catalog"
	"filmdesk/internal/config"
	"filmdesk/internal/draft"
	"filmdesk/internal/imagefile"
	"filmdesk/internal/logging"
	"filmdesk/internal/messages"
	"filmdesk/internal/notifications"
	"filmdesk/internal/services"
)

// Works is the catalog API surface the form needs.
type Works interface {
	GetWork(ctx context.Context, id string) (*catalog.Work, error)
	CreateWork(ctx context.Context, payload *catalog.Payload) (*catalog.Work, error)
	UpdateWork(ctx context.Context, id string, payload *catalog.Payload) (*catalog.Work, error)
	CreateWorkWithImage(ctx context.Context, payload *catalog.Payload, poster *imagefile.File) (*catalog.Work, error)
	UpdateWorkWithImage(ctx context.Context, id string, payload *catalog.Payload, poster *imagefile.File) (*catalog.Work, error)
}

// Uploader hosts an image and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, file *imagefile.File) (string, error)
}

// Alerter shows a message to the operator.
type Alerter interface {
	Alert(message string)
}

// Navigator leaves the form for the entry list.
type Navigator interface {
	ToList()
}

// Deps groups the collaborators of a Controller. Notifier and Logger are
// optional.
type Deps struct {
	Works     Works
	Uploader  Uploader
	Alerts    Alerter
	Navigator Navigator
	Notifier  notifications.Service
	Logger    *slog.Logger
}

// Controller owns the draft of one form session.
type Controller struct {
	works     Works
	uploader  Uploader
	alerts    Alerter
	navigator Navigator
	notifier  notifications.Service
	logger    *slog.Logger
	text      *messages.Catalog
	limits    imagefile.Limits
	uploads   *semaphore.Weighted

	resetOnEditFailure bool

	mu         sync.Mutex
	id         string
	mode       Mode
	draft      draft.Draft
	poster     *imagefile.File
	preview    string
	previewSeq uint64
	loading    bool
	state      State
	closed     bool
	baseCtx    context.Context
	cancel     context.CancelFunc
	pending    sync.WaitGroup
}

// New builds a controller with fresh defaults in create mode.
func New(cfg *config.Config, deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notifications.NewService(&config.Config{})
	}
	parallelism := cfg.Upload.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	text := messages.New(cfg.Locale.Language)
	baseCtx, cancel := context.WithCancel(context.Background())
	return &Controller{
		works:              deps.Works,
		uploader:           deps.Uploader,
		alerts:             deps.Alerts,
		navigator:          deps.Navigator,
		notifier:           notifier,
		logger:             logging.NewComponentLogger(logger, "form"),
		text:               text,
		limits:             imagefile.Limits{MaxBytes: cfg.Upload.MaxBytes, AllowedTypes: cfg.Upload.AllowedTypes},
		uploads:            semaphore.NewWeighted(int64(parallelism)),
		resetOnEditFailure: cfg.Form.ResetOnEditFailure,
		mode:               ModeCreate,
		draft:              draft.New(text),
		baseCtx:            baseCtx,
		cancel:             cancel,
	}
}

func (c *Controller) alert(message string) {
	if c.alerts != nil && message != "" {
		c.alerts.Alert(message)
	}
}

func (c *Controller) toList() {
	if c.navigator != nil {
		c.navigator.ToList()
	}
}

func (c *Controller) withFields(ctx context.Context, id string, mode Mode) context.Context {
	ctx = services.WithWorkID(ctx, id)
	return services.WithFormMode(ctx, string(mode))
}

// Open starts the session for id. An id accepted by draft.IsEditID loads
// that work for editing; anything else opens an empty create form. When the
// work is missing or cannot be loaded the operator is alerted, sent back to
// the list, and the controller is closed.
func (c *Controller) Open(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.draft = draft.New(c.text)
	c.poster = nil
	c.preview = ""
	c.previewSeq++
	c.state = StateIdle
	if !draft.IsEditID(id) {
		c.id = ""
		c.mode = ModeCreate
		c.mu.Unlock()
		return nil
	}
	c.id = id
	c.mode = ModeEdit
	c.loading = true
	c.mu.Unlock()

	ctx = c.withFields(ctx, id, ModeEdit)
	logger := logging.WithContext(ctx, c.logger)
	work, err := c.works.GetWork(ctx, id)

	c.mu.Lock()
	c.loading = false
	if err == nil {
		c.draft = draft.FromWork(work, c.text)
		c.preview = work.PosterURL
		c.mu.Unlock()
		logger.Debug("work loaded for edit", logging.String(logging.FieldEventType, "work_loaded"))
		return nil
	}
	c.closeLocked()
	c.mu.Unlock()

	if errors.Is(err, services.ErrNotFound) {
		logging.WarnWithContext(logger, "work not found", "work_not_found",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the work id"),
			logging.String(logging.FieldImpact, "form closed"),
		)
		c.alert(c.text.Text(messages.WorkNotFound))
	} else {
		logging.ErrorWithContext(logger, "load work failed", "work_load_failed",
			logging.Error(err),
			logging.ErrorKind(err),
			logging.String(logging.FieldErrorHint, "check the API URL and network"),
		)
		c.alert(c.text.Text(messages.LoadFailed))
	}
	c.toList()
	return err
}

// ID returns the work id in edit mode.
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Mode reports create or edit mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Draft returns the current draft. The value is safe to keep; later edits
// never alias it.
func (c *Controller) Draft() draft.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Loading reports whether a load-for-edit fetch is outstanding.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// State returns the submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Closed reports whether the controller has been closed.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Update applies op to the draft. A failing op leaves the draft unchanged.
func (c *Controller) Update(op func(draft.Draft) (draft.Draft, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	next, err := op(c.draft)
	if err != nil {
		return err
	}
	c.draft = next
	return nil
}

// SetField replaces a scalar field by its API name.
func (c *Controller) SetField(name, value string) error {
	return c.Update(func(d draft.Draft) (draft.Draft, error) { return d.SetField(name, value) })
}

// SetCastName replaces the name of cast entry i.
func (c *Controller) SetCastName(i int, name string) error {
	return c.Update(func(d draft.Draft) (draft.Draft, error) { return d.SetCastName(i, name) })
}

// AddCast appends an empty cast row.
func (c *Controller) AddCast() error {
	return c.Update(func(d draft.Draft) (draft.Draft, error) { return d.AddCast(), nil })
}

// RemoveCast drops cast entry i, keeping at least one row.
func (c *Controller) RemoveCast(i int) error {
	return c.Update(func(d draft.Draft) (draft.Draft, error) { return d.RemoveCast(i) })
}

// AddPlatform appends a platform row.
func (c *Controller) AddPlatform() error {
	return c.Update(func(d draft.Draft) (draft.Draft, error) { return d.AddPlatform(), nil })
}

// RemovePlatform drops platform row i.
func (c *Controller) RemovePlatform(i int) error {
	return c.Update(func(d draft.Draft) (draft.Draft, error) { return d.RemovePlatform(i) })
}

// SetPlatformField sets "name" or "url" on platform row i.
func (c *Controller) SetPlatformField(i int, key, value string) error {
	return c.Update(func(d draft.Draft) (draft.Draft, error) { return d.SetPlatformField(i, key, value) })
}

// Wait blocks until outstanding uploads and preview renders settle.
func (c *Controller) Wait() {
	c.pending.Wait()
}

// Close ends the session. Background work that completes afterwards is
// discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Controller) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
}

func (c *Controller) resetLocked() {
	c.draft = draft.New(c.text)
	c.poster = nil
	c.preview = ""
	c.previewSeq++
}
