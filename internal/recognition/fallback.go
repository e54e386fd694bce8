package recognition

import (
	"context"
	"fmt"
	"log"

	"casedesk/internal/domain"
	"casedesk/internal/extract"
	"casedesk/internal/port"
)

// State is a step of the primary/fallback handoff.
type State int

const (
	StateTryingPrimary State = iota
	StateTryingFallback
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateTryingPrimary:
		return "trying_primary"
	case StateTryingFallback:
		return "trying_fallback"
	case StateSucceeded:
		return "succeeded"
	default:
		return "failed"
	}
}

// Observer receives recognition events. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveAttempt(model string, err error)
	ObserveOutcome(outcome string)
}

// Outcome is the terminal result of a recognition.
type Outcome struct {
	State     State
	ModelUsed string
	// Raw is the decoded model object; empty (never nil) when State is StateFailed.
	Raw      *domain.ExtractedData
	Fallback bool // the fallback model produced the result
	Errors   []error
}

// Succeeded reports whether any model produced an object.
func (o *Outcome) Succeeded() bool { return o.State == StateSucceeded }

// ClientOptions configures a Client.
type ClientOptions struct {
	Primary      port.DocumentRecognizer
	PrimaryName  string
	Fallback     port.DocumentRecognizer // optional
	FallbackName string
	Language     string
	Observer     Observer // optional
}

// Client sends a document to the primary model and, on any failure, once to
// the fallback model. There are no further retries.
type Client struct {
	primary      port.DocumentRecognizer
	primaryName  string
	fallback     port.DocumentRecognizer
	fallbackName string
	prompt       string
	observer     Observer
}

// NewClient creates a Client. The prompt is built once from the language hint.
func NewClient(opts ClientOptions) *Client {
	return &Client{
		primary:      opts.Primary,
		primaryName:  opts.PrimaryName,
		fallback:     opts.Fallback,
		fallbackName: opts.FallbackName,
		prompt:       BuildPrompt(opts.Language),
		observer:     opts.Observer,
	}
}

// Recognize runs the handoff and never returns an error: a failed
// recognition is an Outcome in StateFailed carrying an empty object.
func (c *Client) Recognize(ctx context.Context, fileBytes []byte, mimeType string) *Outcome {
	input := port.RecognizeInput{FileBytes: fileBytes, MimeType: mimeType, Prompt: c.prompt}
	out := &Outcome{State: StateTryingPrimary}

	for out.State == StateTryingPrimary || out.State == StateTryingFallback {
		recognizer, name := c.primary, c.primaryName
		if out.State == StateTryingFallback {
			recognizer, name = c.fallback, c.fallbackName
		}

		raw, model, err := c.attempt(ctx, recognizer, name, input)
		if err == nil {
			out.Fallback = out.State == StateTryingFallback
			out.State = StateSucceeded
			out.ModelUsed = model
			out.Raw = raw
			break
		}
		out.Errors = append(out.Errors, err)

		if out.State == StateTryingPrimary && c.fallback != nil {
			log.Printf("recognition.Client: primary model %s failed: %v", name, err)
			out.State = StateTryingFallback
			continue
		}
		log.Printf("recognition.Client: model %s failed, giving up: %v", name, err)
		out.State = StateFailed
	}

	if out.State == StateFailed {
		out.Raw = domain.NewExtractedData()
	}
	if c.observer != nil {
		c.observer.ObserveOutcome(outcomeLabel(out))
	}
	return out
}

func (c *Client) attempt(ctx context.Context, r port.DocumentRecognizer, name string, input port.RecognizeInput) (*domain.ExtractedData, string, error) {
	res, err := r.Recognize(ctx, input)
	if err == nil && res == nil {
		err = fmt.Errorf("%s: empty result", name)
	}
	var raw *domain.ExtractedData
	if err == nil {
		raw = ParseJSON(res.Text)
		if raw == nil {
			err = fmt.Errorf("%w (raw: %s)", ErrUnparseableOutput, Truncate(res.Text, 200))
		}
	}
	if c.observer != nil {
		c.observer.ObserveAttempt(name, err)
	}
	if err != nil {
		return nil, "", err
	}
	model := res.ModelUsed
	if model == "" {
		model = name
	}
	return raw, model, nil
}

// Extract recognizes a document and normalizes the result onto the canonical
// schema. A failed recognition yields an empty map, not a normalized one.
func (c *Client) Extract(ctx context.Context, fileBytes []byte, mimeType string) (*domain.ExtractedData, *Outcome) {
	out := c.Recognize(ctx, fileBytes, mimeType)
	if !out.Succeeded() {
		return domain.NewExtractedData(), out
	}
	return extract.Normalize(out.Raw), out
}

func outcomeLabel(o *Outcome) string {
	switch {
	case o.State == StateFailed:
		return "failed"
	case o.Fallback:
		return "fallback"
	default:
		return "primary"
	}
}
