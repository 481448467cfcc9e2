// Package controller drives one visitor's form: validation, input history,
// a single in-flight generation and the resulting ideas or error.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"reel_idea_generator/generator"
	"reel_idea_generator/history"
)

// GenericErrorMessage is shown when an error carries no usable message or the
// model returned something that does not fit the schema.
const GenericErrorMessage = "Ocurrió un error inesperado."

// ErrBusy is returned when a submission arrives while another is in flight.
var ErrBusy = errors.New("a generation is already in progress")

// State of the form.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Field names shared by the form, the history and the HTML inputs.
const (
	FieldReferenceLink = "referenceLink"
	FieldCategory      = "category"
	FieldGoal          = "goal"
	FieldTheme         = "theme"
	FieldUserIdea      = "userIdea"
)

// Form holds the raw field values as typed by the visitor.
type Form struct {
	ReferenceLink string `json:"referenceLink"`
	Category      string `json:"category"`
	Goal          string `json:"goal"`
	Theme         string `json:"theme"`
	UserIdea      string `json:"userIdea"`
}

// Request converts the form into a generation request.
func (f Form) Request() generator.Request {
	return generator.Request{
		Category:      f.Category,
		Goal:          f.Goal,
		Theme:         f.Theme,
		UserIdea:      f.UserIdea,
		ReferenceLink: f.ReferenceLink,
	}.Normalize()
}

func (f Form) fields() []history.Field {
	return []history.Field{
		{Name: FieldReferenceLink, Value: f.ReferenceLink},
		{Name: FieldCategory, Value: f.Category},
		{Name: FieldGoal, Value: f.Goal},
		{Name: FieldTheme, Value: f.Theme},
		{Name: FieldUserIdea, Value: f.UserIdea},
	}
}

// Generator is the part of generator.Agent the controller needs.
type Generator interface {
	Generate(ctx context.Context, req generator.Request) (generator.IdeasResponse, error)
}

// View is a point-in-time copy of the controller for rendering.
type View struct {
	State       State                `json:"state"`
	Form        Form                 `json:"form"`
	Ideas       []generator.PostIdea `json:"ideas,omitempty"`
	Error       string               `json:"error,omitempty"`
	Suggestions history.History      `json:"suggestions"`
}

// Loading reports whether a request is in flight.
func (v View) Loading() bool { return v.State == StateSubmitting }

// Controller is safe for concurrent use; only one generation runs at a time.
type Controller struct {
	gen      Generator
	recorder *history.Recorder
	logger   *zap.Logger

	mu    sync.Mutex
	state State
	form  Form
	ideas []generator.PostIdea
	err   string
}

func New(gen Generator, recorder *history.Recorder, logger *zap.Logger) (*Controller, error) {
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	if recorder == nil {
		return nil, errors.New("history recorder is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{gen: gen, recorder: recorder, logger: logger}, nil
}

// Submit runs the form flow with new field values.
func (c *Controller) Submit(ctx context.Context, form Form) error {
	_, err := c.run(ctx, &form)
	return err
}

// Propose is Submit for callers that need the ideas of this very attempt,
// not whatever a later submission left behind.
func (c *Controller) Propose(ctx context.Context, form Form) ([]generator.PostIdea, error) {
	return c.run(ctx, &form)
}

// Regenerate runs the flow again with the current field values.
func (c *Controller) Regenerate(ctx context.Context) error {
	_, err := c.run(ctx, nil)
	return err
}

func (c *Controller) run(ctx context.Context, form *Form) ([]generator.PostIdea, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if form != nil {
		c.form = *form
	}
	current := c.form
	req := current.Request()
	if err := req.Validate(); err != nil {
		c.ideas = nil
		c.err = err.Error()
		c.state = StateFailed
		c.mu.Unlock()
		return nil, err
	}
	c.ideas = nil
	c.err = ""
	c.state = StateSubmitting
	c.mu.Unlock()

	if err := c.recorder.Record(ctx, current.fields()...); err != nil {
		c.logger.Warn("history save failed", zap.String("owner", c.recorder.Owner()), zap.Error(err))
	}

	start := time.Now()
	resp, err := c.gen.Generate(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateFailed
		c.err = Message(err)
		c.logger.Info("generation failed",
			zap.String("owner", c.recorder.Owner()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}
	c.ideas = resp.Ideas()
	c.state = StateSuccess
	c.logger.Info("generation succeeded",
		zap.String("owner", c.recorder.Owner()),
		zap.Duration("elapsed", time.Since(start)))
	return append([]generator.PostIdea(nil), c.ideas...), nil
}

// Message picks the text shown to the visitor for a failed attempt.
func Message(err error) string {
	if generator.IsKind(err, generator.KindSchema) {
		return GenericErrorMessage
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return GenericErrorMessage
	}
	return msg
}

// View returns a snapshot for rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		State:       c.state,
		Form:        c.form,
		Error:       c.err,
		Suggestions: c.recorder.Snapshot(),
	}
	if c.ideas != nil {
		v.Ideas = append([]generator.PostIdea(nil), c.ideas...)
	}
	return v
}
