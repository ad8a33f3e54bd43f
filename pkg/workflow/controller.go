// Package workflow drives the create-dictionary flow: validate, submit, observe the result, then
// redirect or surface errors.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/openconceptlab/ocladmin/pkg/api"
	"github.com/openconceptlab/ocladmin/pkg/dictionary"
	"github.com/openconceptlab/ocladmin/pkg/metrics"
	"github.com/openconceptlab/ocladmin/pkg/model"
	"github.com/openconceptlab/ocladmin/pkg/state"
)

var (
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	ErrCompleted      = errors.New("the dictionary has already been created")
	// ErrStale is returned when the visit ended before the backend answered. It is not a failure.
	ErrStale = errors.New("response arrived after the workflow was left")

	errEmptyResponse = errors.New("the server returned no dictionary")
)

// Service is the subset of the API client the workflow needs.
type Service interface {
	CreateSourceAndDictionary(ctx context.Context, d dictionary.Draft, references []string, progress api.ProgressFunc) (*model.Dictionary, error)
	RetrieveDictionaryAndDetails(ctx context.Context, dictionaryURL string) (*model.Dictionary, error)
}

var _ Service = (*api.Client)(nil)

// Navigator receives the completion event.
type Navigator interface {
	Redirect(url string)
}

type NavigatorFunc func(url string)

func (f NavigatorFunc) Redirect(url string) {
	f(url)
}

// TransitionHook observes state changes. It runs with the controller locked and must not call back into it.
type TransitionHook func(from, to State)

type EntryParams struct {
	// CopyFrom is the URL of a dictionary to prefill the draft from.
	CopyFrom string
	// PrevPath is where the user came from; it only affects Title.
	PrevPath string
}

type Option func(*Controller)

func WithSchema(s *dictionary.Schema) Option {
	return func(c *Controller) {
		c.schema = s
	}
}

func WithNavigator(n Navigator) Option {
	return func(c *Controller) {
		c.navigator = n
	}
}

func WithTransitionHook(h TransitionHook) Option {
	return func(c *Controller) {
		c.hooks = append(c.hooks, h)
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// Controller dispatches to the store while holding its own lock, so store listeners must not call back
// into it.
type Controller struct {
	service   Service
	store     state.Dispatcher
	schema    *dictionary.Schema
	navigator Navigator
	hooks     []TransitionHook
	metrics   *metrics.Metrics

	group singleflight.Group

	mu          sync.Mutex
	state       State
	generation  uint64
	params      EntryParams
	draft       dictionary.Draft
	references  []string
	errors      *model.FieldErrors
	fetched     map[string]struct{}
	copyPending map[string]struct{}
	result      *model.Dictionary
	completed   chan struct{}
}

func New(service Service, store state.Dispatcher, options ...Option) *Controller {
	c := &Controller{
		service:   service,
		store:     store,
		schema:    dictionary.DefaultSchema(),
		draft:     dictionary.NewDraft(),
		fetched:     map[string]struct{}{},
		copyPending: map[string]struct{}{},
		completed:   make(chan struct{}),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// Enter starts a fresh visit. Results held from an earlier visit are always discarded.
// With a CopyFrom it blocks until the copy-from lookup finishes.
func (c *Controller) Enter(ctx context.Context, params EntryParams) error {
	c.mu.Lock()
	c.resetLocked()
	c.params = params
	gen := c.generation
	c.store.Dispatch(state.ResetCreateDictionary())
	c.mu.Unlock()

	slog.Debug("Entered dictionary workflow", slog.Uint64("visit", gen), slog.String("copy_from", params.CopyFrom))

	return c.ChangeParams(ctx, params.CopyFrom)
}

// ChangeParams reacts to a new copy-from identifier. Each identifier is fetched at most once per visit
// and concurrent calls for the same identifier share one request.
func (c *Controller) ChangeParams(ctx context.Context, copyFrom string) error {
	if copyFrom == "" {
		return nil
	}

	c.mu.Lock()
	c.params.CopyFrom = copyFrom
	gen := c.generation
	_, done := c.fetched[copyFrom]
	if !done {
		c.copyPending[copyFrom] = struct{}{}
	}
	c.mu.Unlock()
	if done {
		return nil
	}

	key := strconv.FormatUint(gen, 10) + ":" + copyFrom
	_, err, _ := c.group.Do(key, func() (any, error) {
		return nil, c.fetchCopy(ctx, gen, copyFrom)
	})
	return err
}

func (c *Controller) fetchCopy(ctx context.Context, gen uint64, copyFrom string) error {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}
	if _, done := c.fetched[copyFrom]; done {
		delete(c.copyPending, copyFrom)
		c.mu.Unlock()
		return nil
	}
	c.store.Dispatch(state.Started(state.RetrieveDictionaryOp))
	c.mu.Unlock()

	d, err := c.service.RetrieveDictionaryAndDetails(ctx, copyFrom)
	if err == nil && d == nil {
		err = errEmptyResponse
	}
	c.metrics.CopyFetch(err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.dropStale(state.RetrieveDictionaryOp, gen)
		return nil
	}
	c.fetched[copyFrom] = struct{}{}
	delete(c.copyPending, copyFrom)

	if err != nil {
		c.store.Dispatch(state.Failed(state.RetrieveDictionaryOp, api.FieldErrors(err)))
		return fmt.Errorf("copy from %s: %w", copyFrom, err)
	}
	prefill := dictionary.DraftFromDictionary(d)
	prefill.ShortCode = c.draft.ShortCode
	prefill.Owner = c.draft.Owner
	c.draft = prefill

	c.store.Dispatch(state.GetDictionarySucceeded(*d))
	c.store.Dispatch(state.Completed(state.RetrieveDictionaryOp))
	return nil
}

// Exit ends the visit. Responses still in flight are dropped when they arrive.
func (c *Controller) Exit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.store.Dispatch(state.ResetCreateDictionary())
}

func (c *Controller) resetLocked() {
	c.generation++
	if c.state != Idle {
		c.transitionLocked(Idle)
	}
	c.params = EntryParams{}
	c.draft = dictionary.NewDraft()
	c.references = nil
	c.errors = nil
	c.fetched = map[string]struct{}{}
	c.copyPending = map[string]struct{}{}
	c.result = nil
	c.completed = make(chan struct{})
}

// Update edits the draft in place.
func (c *Controller) Update(edit func(d *dictionary.Draft)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	edit(&c.draft)
}

func (c *Controller) Draft() dictionary.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// SetReferences sets the concept expressions added to the dictionary once it is created.
func (c *Controller) SetReferences(expressions ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.references = slices.Clone(expressions)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loading is true while a copy-from lookup or a submission is outstanding.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.copyPending) > 0 || c.state == Validating || c.state == Submitting
}

// Errors returns the messages of the last failed submission.
func (c *Controller) Errors() *model.FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.Clone()
}

// Result is the dictionary created during this visit, if any.
func (c *Controller) Result() *model.Dictionary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Completed is closed when this visit's submission succeeds.
func (c *Controller) Completed() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

func (c *Controller) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return dictionaryTypeLabel(c.params.PrevPath) + " > Create Dictionary"
}

func dictionaryTypeLabel(prevPath string) string {
	switch {
	case strings.HasPrefix(prevPath, "/user/"):
		return "Your Dictionaries"
	case strings.HasPrefix(prevPath, "/orgs/"):
		return "Organisation Dictionaries"
	default:
		return "Public Dictionaries"
	}
}

// Submit validates the draft and, when it is valid, creates the dictionary. On success the navigator
// is told to redirect to the new dictionary exactly once.
func (c *Controller) Submit(ctx context.Context) (*model.Dictionary, error) {
	c.mu.Lock()
	switch c.state {
	case Validating, Submitting:
		c.mu.Unlock()
		c.metrics.Submission(metrics.OutcomeIgnored)
		return nil, ErrSubmitInFlight
	case Succeeded:
		c.mu.Unlock()
		c.metrics.Submission(metrics.OutcomeIgnored)
		return nil, ErrCompleted
	}

	gen := c.generation
	draft := c.draft.Clone()
	references := slices.Clone(c.references)
	c.transitionLocked(Validating)

	if err := c.schema.Validate(draft); err != nil {
		fields := model.GeneralError(err.Error())
		var verr *dictionary.ValidationError
		if errors.As(err, &verr) {
			fields = verr.Fields.Clone()
		}
		c.errors = fields
		c.transitionLocked(Failed)
		c.transitionLocked(Idle)
		c.mu.Unlock()

		c.metrics.Submission(metrics.OutcomeInvalid)
		slog.Debug("Dictionary draft is invalid", slog.Any("errors", fields), slog.String("draft", draft.Fingerprint()))
		return nil, err
	}

	c.errors = nil
	c.transitionLocked(Submitting)
	c.store.Dispatch(state.Started(state.CreateDictionaryOp))
	c.mu.Unlock()

	d, err := c.service.CreateSourceAndDictionary(ctx, draft, references, func(percent int) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen == c.generation {
			c.store.Dispatch(state.Progress(state.CreateDictionaryOp, percent))
		}
	})
	if err == nil && d == nil {
		err = errEmptyResponse
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.dropStale(state.CreateDictionaryOp, gen)
		return nil, ErrStale
	}

	if err != nil {
		fields := api.FieldErrors(err)
		c.errors = fields
		c.transitionLocked(Failed)
		c.transitionLocked(Idle)
		c.store.Dispatch(state.Failed(state.CreateDictionaryOp, fields))
		c.mu.Unlock()

		c.metrics.Submission(metrics.OutcomeRejected)
		slog.Warn("Dictionary was not created", slog.Any("errors", fields), slog.String("draft", draft.Fingerprint()))
		return nil, err
	}

	c.result = d
	c.transitionLocked(Succeeded)
	close(c.completed)
	c.store.Dispatch(state.CreateDictionarySucceeded(*d))
	c.store.Dispatch(state.Completed(state.CreateDictionaryOp))
	c.mu.Unlock()

	c.metrics.Submission(metrics.OutcomeSucceeded)
	slog.Info("Dictionary created", slog.String("url", d.URL), slog.String("draft", draft.Fingerprint()))

	if c.navigator != nil {
		c.navigator.Redirect(d.URL)
	}
	return d, nil
}

func (c *Controller) dropStale(op state.Operation, gen uint64) {
	c.metrics.StaleResponse(string(op))
	slog.Debug("Dropping response for a finished visit", slog.String("operation", string(op)), slog.Uint64("visit", gen))
}

func (c *Controller) transitionLocked(to State) {
	from := c.state
	c.state = to
	for _, h := range c.hooks {
		h(from, to)
	}
}
