// Package critic closes the feedback loop: it submits finished call
// transcripts to a secondary evaluation model and extracts corrective
// lessons for future calls.
package critic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultModel = openai.ChatModelGPT4oMini

// rubric is the fixed evaluation prompt. The response layout it demands is
// what ParseVerdict understands; both sides of that contract live in this
// package.
const rubric = `You are a quality reviewer for a disaster-response hotline.
You will be given the transcript of one finished call between a caller in a
disaster area and the hotline operator.

Evaluate the operator only. Judge: empathy and calm, triage priority
(life safety first), information gathering (location, injuries, immediate
dangers), clarity of instructions, and appropriate handoffs.

Respond in exactly this layout:

SCORE: <0-10>
ISSUES:
- <observed problem, one per line>
LESSONS:
- <standalone imperative correction the operator should apply on future
  calls, one per line>

Keep lessons short, concrete, and self-contained. If the call was handled
well, return an empty LESSONS section.`

// Message is one transcript entry as the critic consumes it.
type Message struct {
	Role      string
	Text      string
	Timestamp time.Time
}

type Option func(*Critic)

func WithModel(model string) Option {
	return func(c *Critic) { c.model = openai.ChatModel(model) }
}

func WithAPIKey(apiKey string) Option {
	return func(c *Critic) {
		c.requestOptions = append(c.requestOptions, option.WithAPIKey(apiKey))
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Critic) {
		c.requestOptions = append(c.requestOptions, option.WithBaseURL(baseURL))
	}
}

// Critic evaluates finished calls against the rubric.
type Critic struct {
	client openai.Client
	model  openai.ChatModel

	requestOptions []option.RequestOption
}

func New(opts ...Option) *Critic {
	c := &Critic{
		model: defaultModel,
		requestOptions: []option.RequestOption{
			option.WithHTTPClient(&http.Client{
				Transport: otelhttp.NewTransport(http.DefaultTransport),
				Timeout:   60 * time.Second,
			}),
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = openai.NewClient(c.requestOptions...)
	return c
}

// Evaluate submits the transcript and parses the verdict. A transcript with
// fewer than two messages carries no real exchange and is rejected; callers
// treat any returned error as log-and-skip, never user-facing.
func (c *Critic) Evaluate(ctx context.Context, transcript []Message) (Verdict, error) {
	ctx, span := tracer.Start(ctx, "critic.Evaluate")
	defer span.End()
	span.SetAttributes(attribute.Int("transcript.messages", len(transcript)))

	if len(transcript) < 2 {
		err := errors.New("transcript has no real exchange to evaluate")
		span.SetStatus(codes.Error, err.Error())
		return Verdict{}, err
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(rubric),
			openai.UserMessage(FormatTranscript(transcript)),
		},
	})
	if err != nil {
		recordedErr := fmt.Errorf("evaluation request failed: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return Verdict{}, recordedErr
	}

	if len(completion.Choices) == 0 {
		err := errors.New("evaluation response carried no choices")
		span.SetStatus(codes.Error, err.Error())
		return Verdict{}, err
	}

	verdict := ParseVerdict(completion.Choices[0].Message.Content)
	span.SetAttributes(
		attribute.Int("verdict.score", verdict.Score),
		attribute.Int("verdict.lessons", len(verdict.Lessons)),
	)
	logger.InfoContext(ctx, "call evaluated",
		"score", verdict.Score, "issues", len(verdict.Issues), "lessons", len(verdict.Lessons))

	return verdict, nil
}

// FormatTranscript renders the transcript the way the rubric expects it:
// one "role: text" line per message in call order.
func FormatTranscript(transcript []Message) string {
	var b strings.Builder
	for _, message := range transcript {
		b.WriteString(message.Role)
		b.WriteString(": ")
		b.WriteString(message.Text)
		b.WriteString("\n")
	}
	return b.String()
}
