package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
)

const (
	// EnvAnthropicAPIKey is consulted when no API key is passed
	// explicitly.
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"

	// DefaultClaudeModel is used when no model name is configured.
	DefaultClaudeModel = "claude-sonnet-4-20250514"

	defaultMaxTokens = 4096
)

// Claude is a Provider backed by the Anthropic Messages API.
type Claude struct {
	client anthropic.Client
	model  string
}

// NewClaude creates a Claude provider. An empty apiKey falls back to
// the ANTHROPIC_API_KEY environment variable, and an empty modelName
// falls back to DefaultClaudeModel.
func NewClaude(apiKey, modelName string) (*Claude, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvAnthropicAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is not set; export %s or pass a key", EnvAnthropicAPIKey)
	}
	if modelName == "" {
		modelName = DefaultClaudeModel
	}

	return &Claude{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  modelName,
	}, nil
}

// Model returns the configured model name.
func (c *Claude) Model() string {
	return c.model
}

// Generate sends one Messages API request and converts the response.
func (c *Claude) Generate(ctx context.Context, req *Request) (*Reply, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages:  messagesToParams(req.Messages),
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{
			Text: req.System,
			Type: constant.ValueOf[constant.Text]().Default(),
		}}
	}

	if len(req.Tools) > 0 {
		tools := make([]anthropic.ToolUnionParam, 0, len(req.Tools))
		for _, schema := range req.Tools {
			tools = append(tools, toolSchemaToParam(schema))
		}
		params.Tools = tools
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic message request: %w", err)
	}

	return replyFromMessage(message), nil
}

func toolSchemaToParam(schema ToolSchema) anthropic.ToolUnionParam {
	inputSchema := anthropic.ToolInputSchemaParam{
		Type:       constant.ValueOf[constant.Object]().Default(),
		Properties: schema.Properties,
	}
	if len(schema.Required) > 0 {
		inputSchema.Required = schema.Required
	}

	tool := anthropic.ToolUnionParamOfTool(inputSchema, schema.Name)
	if schema.Description != "" {
		tool.OfTool.Description = param.NewOpt(schema.Description)
	}
	return tool
}

func messagesToParams(messages []Message) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		params = append(params, messageToParam(msg))
	}
	return params
}

func messageToParam(msg Message) anthropic.MessageParam {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(msg.ToolCalls)+len(msg.ToolResults))

	for _, result := range msg.ToolResults {
		blocks = append(blocks, anthropic.NewToolResultBlock(result.CallID, result.Content, result.IsError))
	}
	if msg.Text != "" {
		blocks = append(blocks, anthropic.NewTextBlock(msg.Text))
	}
	for _, call := range msg.ToolCalls {
		var args map[string]any
		if len(call.Arguments) > 0 {
			// Arguments came out of the model as JSON; a decode
			// failure here leaves an empty input object.
			_ = json.Unmarshal(call.Arguments, &args)
		}
		blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, args, call.Name))
	}

	if msg.Role == RoleAssistant {
		return anthropic.NewAssistantMessage(blocks...)
	}
	return anthropic.NewUserMessage(blocks...)
}

func replyFromMessage(message *anthropic.Message) *Reply {
	reply := &Reply{
		StopReason: string(message.StopReason),
	}

	var text strings.Builder
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			if text.Len() > 0 {
				text.WriteString("\n")
			}
			text.WriteString(b.Text)
		case anthropic.ToolUseBlock:
			reply.ToolCalls = append(reply.ToolCalls, ToolCall{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: json.RawMessage(b.Input),
			})
		}
	}
	reply.Text = text.String()

	return reply
}
