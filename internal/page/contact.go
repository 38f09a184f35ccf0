package page

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/portfolio/internal/logging"
	"github.com/jonathan/portfolio/internal/types"
)

// DefaultStatusDuration is how long a submission result stays visible.
const DefaultStatusDuration = 5 * time.Second

// Submitter delivers a contact form. *client.Client satisfies it.
type Submitter interface {
	SubmitContact(ctx context.Context, req types.ContactRequest) (*types.ContactReceipt, error)
}

// FormStatus is the transient result shown under the contact form.
type FormStatus string

// Form statuses. The zero value shows nothing.
const (
	FormIdle    FormStatus = ""
	FormSuccess FormStatus = "success"
	FormError   FormStatus = "error"
)

// Timer is the part of *time.Timer the form uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FormOption configures a ContactForm.
type FormOption func(*ContactForm)

// WithStatusDuration overrides how long the status is shown.
func WithStatusDuration(d time.Duration) FormOption {
	return func(f *ContactForm) { f.clearAfter = d }
}

// WithAfterFunc replaces the timer used to clear the status.
func WithAfterFunc(fn AfterFunc) FormOption {
	return func(f *ContactForm) { f.afterFunc = fn }
}

// WithFormLogger sets the logger.
func WithFormLogger(l *zap.Logger) FormOption {
	return func(f *ContactForm) { f.logger = logging.OrNop(l) }
}

// ContactForm is the state behind the contact section. Submissions are fire and forget:
// a failure is reported once and the visitor may submit again.
type ContactForm struct {
	submitter  Submitter
	clearAfter time.Duration
	afterFunc  AfterFunc
	logger     *zap.Logger

	mu         sync.Mutex
	status     FormStatus
	message    string
	submitting bool
	fields     types.ContactRequest
	timer      Timer
	generation int
}

// NewContactForm creates an idle form.
func NewContactForm(s Submitter, opts ...FormOption) *ContactForm {
	f := &ContactForm{
		submitter:  s,
		clearAfter: DefaultStatusDuration,
		afterFunc:  realAfterFunc,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Status returns the visible status and its message.
func (f *ContactForm) Status() (FormStatus, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, f.message
}

// Submitting reports whether a submission is in flight.
func (f *ContactForm) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Fields returns the current input values. They are cleared after a successful submission.
func (f *ContactForm) Fields() types.ContactRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Submit validates and sends req. The returned error is the one shown to the visitor;
// it is also reflected in Status until the status clears.
func (f *ContactForm) Submit(ctx context.Context, req types.ContactRequest) error {
	f.mu.Lock()
	f.fields = req
	f.submitting = true
	f.mu.Unlock()

	err := req.Validate()
	if err == nil {
		_, err = f.submitter.SubmitContact(ctx, req)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.logger.Warn("contact submission failed", zap.Error(err))
		f.showLocked(FormError, "Failed to send message. Please try again.")
		return err
	}
	f.fields = types.ContactRequest{}
	f.showLocked(FormSuccess, "Message sent successfully!")
	return nil
}

// showLocked sets the status and schedules it to clear. A newer status cancels the
// pending clear of an older one. f.mu must be held.
func (f *ContactForm) showLocked(status FormStatus, message string) {
	f.status = status
	f.message = message
	f.generation++
	if f.timer != nil {
		f.timer.Stop()
	}
	gen := f.generation
	f.timer = f.afterFunc(f.clearAfter, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.generation != gen {
			return
		}
		f.status = FormIdle
		f.message = ""
		f.timer = nil
	})
}

// Reset clears the status immediately and cancels any pending clear.
func (f *ContactForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.status = FormIdle
	f.message = ""
}
