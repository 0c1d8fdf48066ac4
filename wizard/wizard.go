// Package wizard holds the work request form: its data, the steps shown
// for that data, the per-step validators and the navigation rules that
// keep a user from skipping past an invalid step.
package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/mbolis/work-requests/directory"
)

// RecaptchaKey is the error key reserved for spam check failures.
const RecaptchaKey = "recaptcha"

// FormKey holds errors that belong to no single field.
const FormKey = "form"

type SubmitState int

const (
	SubmitIdle SubmitState = iota
	SubmitSuccess
	SubmitError
)

// SpamChecker produces a token proving the submitter passed the spam check.
type SpamChecker interface {
	Check(ctx context.Context) (token string, err error)
}

// Submitter posts the payload. Field errors returned by the server come
// back as Errors with a nil error.
type Submitter interface {
	Submit(ctx context.Context, data FormData, token string) (Errors, error)
}

type OptionsSource interface {
	Options(ctx context.Context) (directory.Options, error)
}

type Wizard struct {
	mu  sync.Mutex
	now func() time.Time

	data        FormData
	current     int
	errors      Errors
	state       SubmitState
	submitting  bool
	options     directory.Options
	warnings    []string
	optionsLoad int
}

func New(now func() time.Time) *Wizard {
	if now == nil {
		now = time.Now
	}
	w := &Wizard{now: now}
	w.reset()
	return w
}

func (w *Wizard) reset() {
	w.data = FormData{}
	w.current = 0
	w.errors = Errors{}
}

func (w *Wizard) Data() FormData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data
}

// Update applies fn and the derived field rules as one change.
func (w *Wizard) Update(fn func(d *FormData)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev := w.data
	next := w.data
	fn(&next)
	Derive(&prev, &next)
	w.data = next
	w.clamp()
}

func (w *Wizard) clamp() {
	steps := VisibleSteps(&w.data)
	if w.current > len(steps)-1 {
		w.current = len(steps) - 1
	}
	if maxIdx, _ := Gate(&w.data, w.now()); w.current > maxIdx {
		w.current = maxIdx
	}
	if w.current < 0 {
		w.current = 0
	}
}

func (w *Wizard) Steps() []Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return VisibleSteps(&w.data)
}

func (w *Wizard) CurrentIndex() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *Wizard) CurrentStep() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return VisibleSteps(&w.data)[w.current]
}

func (w *Wizard) Errors() Errors {
	w.mu.Lock()
	defer w.mu.Unlock()
	errs := Errors{}
	errs.Merge(w.errors)
	return errs
}

func (w *Wizard) MaxEnabledIndex() (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Gate(&w.data, w.now())
}

// GoTo moves to step i when it is reachable. A locked step snaps back to
// the gating step and shows its errors.
func (w *Wizard) GoTo(i int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if i < 0 {
		i = 0
	}
	today := w.now()
	maxIdx, _ := Gate(&w.data, today)
	if i <= maxIdx {
		w.current = i
		w.errors = Errors{}
		return true
	}
	w.current = maxIdx
	w.errors = ValidateStep(VisibleSteps(&w.data)[maxIdx], &w.data, today)
	return false
}

// Next validates only the current step and advances when it passes.
func (w *Wizard) Next() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	steps := VisibleSteps(&w.data)
	errs := ValidateStep(steps[w.current], &w.data, w.now())
	if !errs.Valid() {
		w.errors = errs
		return false
	}
	w.errors = Errors{}
	if w.current < len(steps)-1 {
		w.current++
	}
	return true
}

func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current > 0 {
		w.current--
	}
	w.errors = Errors{}
}

func (w *Wizard) IsLastStep() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current == len(VisibleSteps(&w.data))-1
}

func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

func (w *Wizard) SubmitState() SubmitState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Submit validates the last step, runs the spam check and posts the form.
// It returns false without side effects while another submit is running.
func (w *Wizard) Submit(ctx context.Context, spam SpamChecker, sub Submitter) bool {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return false
	}
	steps := VisibleSteps(&w.data)
	if w.current != len(steps)-1 {
		w.mu.Unlock()
		return false
	}
	errs := ValidateStep(steps[w.current], &w.data, w.now())
	if !errs.Valid() {
		w.errors = errs
		w.mu.Unlock()
		return false
	}
	w.submitting = true
	w.errors = Errors{}
	data := w.data
	w.mu.Unlock()

	token, err := spam.Check(ctx)
	if err != nil {
		w.finishSubmit(Errors{RecaptchaKey: "We could not verify that you are not a robot. Please try again."})
		return false
	}

	fieldErrs, err := sub.Submit(ctx, data, token)
	if err != nil {
		w.finishSubmit(Errors{FormKey: "Your request could not be submitted. Please try again."})
		return false
	}
	if !fieldErrs.Valid() {
		w.finishSubmit(fieldErrs)
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	w.reset()
	w.state = SubmitSuccess
	return true
}

func (w *Wizard) finishSubmit(errs Errors) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	w.state = SubmitError
	w.errors.Merge(errs)
}

// Reset returns the wizard to its initial state.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reset()
	w.state = SubmitIdle
}

// LoadOptions fetches directory options in the background. Only the most
// recent load applies its result, and none applies after Teardown. The
// returned channel closes when the fetch has finished.
func (w *Wizard) LoadOptions(ctx context.Context, src OptionsSource) <-chan struct{} {
	w.mu.Lock()
	w.optionsLoad++
	load := w.optionsLoad
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)

		opts, err := src.Options(ctx)
		resolved, warnings := directory.WithFallback(opts)
		if err != nil {
			warnings = append([]string{"Could not load directory options."}, warnings...)
		}

		w.mu.Lock()
		defer w.mu.Unlock()
		if load != w.optionsLoad || ctx.Err() != nil {
			return
		}
		w.options = resolved
		w.warnings = warnings
	}()
	return done
}

// Teardown discards any directory load still in flight.
func (w *Wizard) Teardown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.optionsLoad++
}

func (w *Wizard) Options() (directory.Options, []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.options, append([]string(nil), w.warnings...)
}
