package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/calagent/calagent/internal/model"
)

// ToolSession is the orchestrator's view of the tool server: a cached
// tool listing for pre-dispatch validation and a call path. Call
// returns the textual tool output; isError reports a failure result
// produced by the tool itself, while err reports a transport-level
// failure.
type ToolSession interface {
	Tools(ctx context.Context) ([]model.ToolSchema, error)
	Call(ctx context.Context, name string, args map[string]any) (content string, isError bool, err error)
	Close() error
}

// MCPSession is a ToolSession backed by an MCP client connection,
// either in-process or over streamable HTTP.
type MCPSession struct {
	client *mcpclient.Client

	mu    sync.RWMutex
	tools []model.ToolSchema
}

// NewInProcessSession connects directly to an MCP server in the same
// process. This is the default transport for the serve command, where
// the orchestrator and the tool server share a binary.
func NewInProcessSession(ctx context.Context, srv *mcpserver.MCPServer) (*MCPSession, error) {
	c, err := mcpclient.NewInProcessClient(srv)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-process MCP client: %w", err)
	}
	return initSession(ctx, c)
}

// NewStreamableHTTPSession connects to an MCP server over streamable
// HTTP at the given URL.
func NewStreamableHTTPSession(ctx context.Context, url string) (*MCPSession, error) {
	c, err := mcpclient.NewStreamableHttpClient(url)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP HTTP client: %w", err)
	}
	return initSession(ctx, c)
}

func initSession(ctx context.Context, c *mcpclient.Client) (*MCPSession, error) {
	if err := c.Start(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: "calagent", Version: "1.0"},
		},
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize MCP client: %w", err)
	}

	return &MCPSession{client: c}, nil
}

// Tools returns the tool schemas exposed by the server. The listing is
// fetched once and cached for the life of the session; the registry is
// static after registration.
func (s *MCPSession) Tools(ctx context.Context) ([]model.ToolSchema, error) {
	s.mu.RLock()
	cached := s.tools
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	result, err := s.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	tools := make([]model.ToolSchema, 0, len(result.Tools))
	for _, t := range result.Tools {
		tools = append(tools, model.ToolSchema{
			Name:        t.Name,
			Description: t.Description,
			Properties:  t.InputSchema.Properties,
			Required:    t.InputSchema.Required,
		})
	}

	s.mu.Lock()
	s.tools = tools
	s.mu.Unlock()

	return tools, nil
}

// Call invokes a tool by name and flattens its text content.
func (s *MCPSession) Call(ctx context.Context, name string, args map[string]any) (string, bool, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := s.client.CallTool(ctx, req)
	if err != nil {
		return "", false, fmt.Errorf("tool call %q failed: %w", name, err)
	}

	var sb strings.Builder
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(text.Text)
		}
	}

	return sb.String(), result.IsError, nil
}

// Close tears down the underlying client connection.
func (s *MCPSession) Close() error {
	return s.client.Close()
}
