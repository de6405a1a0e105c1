package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/calagent/calagent/internal/instrumentation"
	"github.com/calagent/calagent/internal/logging"
	"github.com/calagent/calagent/internal/model"
)

const (
	// DefaultMaxToolRounds bounds how many times tool results may be
	// fed back to the model within one task.
	DefaultMaxToolRounds = 2

	// DefaultModelTimeout bounds a single model call.
	DefaultModelTimeout = 60 * time.Second

	// DefaultToolTimeout bounds a single tool call.
	DefaultToolTimeout = 30 * time.Second

	defaultSystemPrompt = "You are a calendar assistant. You answer questions about the " +
		"user's schedule by calling the available calendar tools. Be concise and always " +
		"include event times in your answers. If a tool returns no results, say so plainly."
)

// Config tunes an Orchestrator. Zero values select the defaults.
type Config struct {
	SystemPrompt  string
	MaxToolRounds int
	ModelTimeout  time.Duration
	ToolTimeout   time.Duration

	// ModelName labels model-call metrics; Metrics may be nil.
	ModelName string
	Metrics   *instrumentation.Metrics
}

// Orchestrator turns one natural-language question into one answer by
// looping between the model and the tool session. It is stateless
// across runs and safe for concurrent use.
type Orchestrator struct {
	provider model.Provider
	session  ToolSession

	systemPrompt  string
	maxToolRounds int
	modelTimeout  time.Duration
	toolTimeout   time.Duration
	modelName     string
	metrics       *instrumentation.Metrics

	now func() time.Time
}

// New creates an Orchestrator over a model provider and a tool session.
func New(provider model.Provider, session ToolSession, cfg Config) *Orchestrator {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = DefaultMaxToolRounds
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = DefaultModelTimeout
	}
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = DefaultToolTimeout
	}

	return &Orchestrator{
		provider:      provider,
		session:       session,
		systemPrompt:  cfg.SystemPrompt,
		maxToolRounds: cfg.MaxToolRounds,
		modelTimeout:  cfg.ModelTimeout,
		toolTimeout:   cfg.ToolTimeout,
		modelName:     cfg.ModelName,
		metrics:       cfg.Metrics,
		now:           time.Now,
	}
}

// Run answers a single question. On failure the returned error is a
// *Failure whose UserMessage is safe to show to the end user; the
// wrapped detail is for logs only.
func (o *Orchestrator) Run(ctx context.Context, input string) (string, error) {
	tools, err := o.session.Tools(ctx)
	if err != nil {
		return "", NewFailure(ReasonUpstreamError, err)
	}

	system := fmt.Sprintf("%s\n\nThe current date and time is %s.",
		o.systemPrompt, o.now().UTC().Format(time.RFC3339))

	messages := []model.Message{{Role: model.RoleUser, Text: input}}
	toolRounds := 0
	correctiveUsed := false

	for {
		reply, err := o.complete(ctx, system, messages, tools)
		if err != nil {
			return "", err
		}

		if !reply.WantsTools() {
			if strings.TrimSpace(reply.Text) == "" {
				return "", NewFailure(ReasonModelError, errors.New("model produced an empty reply"))
			}
			return reply.Text, nil
		}

		if toolRounds >= o.maxToolRounds {
			return "", NewFailure(ReasonModelError,
				fmt.Errorf("model still requested tools after %d rounds", toolRounds))
		}

		messages = append(messages, reply.AsMessage())

		results := make([]model.ToolResult, 0, len(reply.ToolCalls))
		dispatched := false
		for _, call := range reply.ToolCalls {
			content, failure := o.execute(ctx, call, tools)
			if failure == nil {
				results = append(results, model.ToolResult{CallID: call.ID, Content: content})
				dispatched = true
				continue
			}

			switch failure.Reason {
			case ReasonUnknownTool, ReasonInvalidArguments:
				// One corrective re-prompt per task; a second
				// bad call terminates it.
				if correctiveUsed {
					return "", failure
				}
				correctiveUsed = true
				results = append(results, model.ToolResult{
					CallID:  call.ID,
					Content: correctiveMessage(failure, tools),
					IsError: true,
				})
			default:
				return "", failure
			}
		}
		if dispatched {
			toolRounds++
		}

		messages = append(messages, model.Message{Role: model.RoleUser, ToolResults: results})
	}
}

// complete runs one bounded model call and classifies its errors.
func (o *Orchestrator) complete(ctx context.Context, system string, messages []model.Message, tools []model.ToolSchema) (*model.Reply, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.modelTimeout)
	defer cancel()

	start := time.Now()
	reply, err := o.provider.Generate(callCtx, &model.Request{
		System:   system,
		Messages: messages,
		Tools:    tools,
	})
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	if o.metrics != nil {
		o.metrics.RecordModelCall(ctx, o.modelName, status, duration)
	}

	if err != nil {
		switch {
		case ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled):
			return nil, NewFailure(ReasonCancelled, err)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, NewFailure(ReasonModelTimeout, err)
		default:
			return nil, NewFailure(ReasonModelError, err)
		}
	}

	slog.Debug("model call completed",
		logging.Operation("complete"),
		slog.String("stop_reason", reply.StopReason),
		slog.Int("tool_calls", len(reply.ToolCalls)),
		logging.Duration(duration))

	return reply, nil
}

// execute validates one tool call against the cached registry listing
// and dispatches it. Unknown names are rejected before any upstream
// call is made.
func (o *Orchestrator) execute(ctx context.Context, call model.ToolCall, tools []model.ToolSchema) (string, *Failure) {
	schema, ok := findTool(tools, call.Name)
	if !ok {
		slog.Warn("model requested unregistered tool", logging.Tool(call.Name))
		return "", NewFailure(ReasonUnknownTool, fmt.Errorf("tool %q is not registered", call.Name))
	}

	var args map[string]any
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return "", NewFailure(ReasonInvalidArguments,
				fmt.Errorf("tool %q arguments are not a JSON object: %w", call.Name, err))
		}
	}
	for _, required := range schema.Required {
		if _, present := args[required]; !present {
			return "", NewFailure(ReasonInvalidArguments,
				fmt.Errorf("tool %q call is missing required argument %q", call.Name, required))
		}
	}

	// The tool path carries its own bounded timeout so a hung upstream
	// call cannot stall the task indefinitely.
	callCtx, cancel := context.WithTimeout(ctx, o.toolTimeout)
	defer cancel()

	content, isError, err := o.session.Call(callCtx, call.Name, args)
	if err != nil {
		if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
			return "", NewFailure(ReasonCancelled, err)
		}
		return "", NewFailure(ReasonUpstreamError, err)
	}
	if isError {
		return "", NewFailure(classifyToolError(content), errors.New(content))
	}

	return content, nil
}

func findTool(tools []model.ToolSchema, name string) (model.ToolSchema, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return model.ToolSchema{}, false
}

// classifyToolError maps a tool error result onto the failure
// taxonomy. The argument-validation messages are produced by our own
// handlers, so their shape is stable.
func classifyToolError(content string) Reason {
	if strings.HasPrefix(content, "Invalid ") || strings.Contains(content, "must be") {
		return ReasonInvalidArguments
	}
	return ReasonUpstreamError
}

func correctiveMessage(failure *Failure, tools []model.ToolSchema) string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return fmt.Sprintf("%v. The available tools are: %s. Correct the call and try again.",
		failure.Err, strings.Join(names, ", "))
}
