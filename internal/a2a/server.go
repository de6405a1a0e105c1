package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calagent/calagent/internal/agent"
	"github.com/calagent/calagent/internal/instrumentation"
	"github.com/calagent/calagent/internal/logging"
)

const (
	agentCardPath = "/.well-known/agent.json"

	protocolVersion = "0.3.0"

	maxBodyBytes = 1 << 20
)

// Runner answers one question. Errors should be *agent.Failure so the
// endpoint can surface the degraded user message.
type Runner interface {
	Run(ctx context.Context, input string) (string, error)
}

// Config configures the protocol endpoint.
type Config struct {
	// ID is the skill identifier advertised on the agent card.
	ID          string
	Name        string
	Description string
	Version     string
	// URL is the externally reachable endpoint advertised on the
	// agent card.
	URL string
	// JWTSecret enables bearer session auth when non-empty.
	JWTSecret string
	// Metrics may be nil.
	Metrics *instrumentation.Metrics
}

// Server exposes a Runner over the A2A protocol: JSON-RPC 2.0 with
// message/send, message/stream (SSE), tasks/get and tasks/cancel, plus
// the agent card. Each task runs independently; the request context
// governs its in-flight model and tool calls.
type Server struct {
	runner    Runner
	store     *TaskStore
	card      AgentCard
	jwtSecret string
	metrics   *instrumentation.Metrics
}

// NewServer creates the protocol endpoint around a runner.
func NewServer(runner Runner, cfg Config) *Server {
	if cfg.ID == "" {
		cfg.ID = "calendar_agent"
	}
	if cfg.Name == "" {
		cfg.Name = "calagent"
	}
	if cfg.Description == "" {
		cfg.Description = "A calendar assistant that retrieves your events and reminders for today"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	card := AgentCard{
		Name:               cfg.Name,
		Description:        cfg.Description,
		URL:                cfg.URL,
		Version:            cfg.Version,
		ProtocolVersion:    protocolVersion,
		Capabilities:       AgentCapabilities{Streaming: true},
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
		Skills: []AgentSkill{
			{
				ID:          cfg.ID,
				Name:        "Calendar queries",
				Description: "Answers natural-language questions about upcoming events and reminders",
				Tags:        []string{"calendar", "tasks"},
			},
		},
	}

	return &Server{
		runner:    runner,
		store:     NewTaskStore(),
		card:      card,
		jwtSecret: cfg.JWTSecret,
		metrics:   cfg.Metrics,
	}
}

// TaskStore exposes the server's task registry, mainly for tests.
func (s *Server) TaskStore() *TaskStore {
	return s.store
}

// Handler returns the full HTTP handler: agent card, JSON-RPC
// endpoint, auth and metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(agentCardPath, s.handleAgentCard)
	mux.HandleFunc("/", s.handleRPC)

	return AuthMiddleware(s.jwtSecret, s.withMetrics(mux))
}

func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.card); err != nil {
		slog.Error("failed to write agent card", logging.Err(err))
	}
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeRPCError(w, nil, codeParseError, "failed to read request body")
		return
	}

	var req jsonrpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeRPCError(w, nil, codeParseError, "request is not valid JSON")
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		writeRPCError(w, req.ID, codeInvalidRequest, "not a JSON-RPC 2.0 request")
		return
	}

	switch req.Method {
	case "message/send":
		s.handleMessageSend(w, r, &req)
	case "message/stream":
		s.handleMessageStream(w, r, &req)
	case "tasks/get":
		s.handleTasksGet(w, &req)
	case "tasks/cancel":
		s.handleTasksCancel(w, &req)
	default:
		writeRPCError(w, req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}
}

func (s *Server) handleMessageSend(w http.ResponseWriter, r *http.Request, req *jsonrpcRequest) {
	task, input, runCtx, cancel, rpcErr := s.newTask(r.Context(), req.Params)
	if rpcErr != nil {
		writeRPCError(w, req.ID, rpcErr.Code, rpcErr.Message)
		return
	}
	defer cancel()

	final := s.run(runCtx, task, input)
	writeRPCResult(w, req.ID, final)
}

func (s *Server) handleMessageStream(w http.ResponseWriter, r *http.Request, req *jsonrpcRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeRPCError(w, req.ID, codeInternalError, "streaming is not supported by this connection")
		return
	}

	task, input, runCtx, cancel, rpcErr := s.newTask(r.Context(), req.Params)
	if rpcErr != nil {
		writeRPCError(w, req.ID, rpcErr.Code, rpcErr.Message)
		return
	}
	defer cancel()

	events, stopWatch := s.store.Watch(task.ID)
	defer stopWatch()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if s.metrics != nil {
		s.metrics.IncrementActiveStreams(r.Context())
		defer s.metrics.DecrementActiveStreams(r.Context())
	}

	// First event is the submitted task itself, then status updates
	// until the terminal one.
	writeSSE(w, flusher, req.ID, task)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.run(runCtx, task, input)
	}()

	for event := range events {
		writeSSE(w, flusher, req.ID, event)
	}
	<-done
}

func (s *Server) handleTasksGet(w http.ResponseWriter, req *jsonrpcRequest) {
	var params TaskIDParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.ID == "" {
		writeRPCError(w, req.ID, codeInvalidParams, "params must carry a task id")
		return
	}

	task, ok := s.store.Get(params.ID)
	if !ok {
		writeRPCError(w, req.ID, codeTaskNotFound, "Task not found")
		return
	}
	writeRPCResult(w, req.ID, task)
}

func (s *Server) handleTasksCancel(w http.ResponseWriter, req *jsonrpcRequest) {
	var params TaskIDParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.ID == "" {
		writeRPCError(w, req.ID, codeInvalidParams, "params must carry a task id")
		return
	}

	found, cancelled := s.store.Cancel(params.ID)
	if !found {
		writeRPCError(w, req.ID, codeTaskNotFound, "Task not found")
		return
	}
	if !cancelled {
		writeRPCError(w, req.ID, codeTaskNotCancelable, "Task cannot be canceled")
		return
	}

	task, _ := s.store.Get(params.ID)
	writeRPCResult(w, req.ID, task)
}

type rpcError struct {
	Code    int
	Message string
}

// newTask validates message params and registers a submitted task
// whose in-flight work is cancellable via the store.
func (s *Server) newTask(ctx context.Context, rawParams json.RawMessage) (Task, string, context.Context, context.CancelFunc, *rpcError) {
	var params MessageSendParams
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return Task{}, "", nil, nil, &rpcError{codeInvalidParams, "params must carry a message"}
	}

	input := params.Message.Text()
	if strings.TrimSpace(input) == "" {
		return Task{}, "", nil, nil, &rpcError{codeInvalidParams, "message has no text content"}
	}

	taskID := uuid.NewString()
	contextID := params.Message.ContextID
	if contextID == "" {
		contextID = uuid.NewString()
	}

	userMsg := params.Message
	userMsg.Kind = "message"
	userMsg.Role = "user"
	if userMsg.MessageID == "" {
		userMsg.MessageID = uuid.NewString()
	}
	userMsg.TaskID = taskID
	userMsg.ContextID = contextID

	task := Task{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status:    TaskStatus{State: TaskStateSubmitted, Timestamp: timestamp()},
		History:   []Message{userMsg},
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.store.Create(task, cancel)

	slog.Info("task submitted",
		logging.Task(taskID),
		slog.String(logging.KeyContext, contextID))

	return task, input, runCtx, cancel, nil
}

// run drives a task to its terminal state and returns the final
// snapshot.
func (s *Server) run(ctx context.Context, task Task, input string) Task {
	start := time.Now()
	s.store.UpdateStatus(task.ID, TaskStatus{State: TaskStateWorking, Timestamp: timestamp()}, false)

	output, err := s.runner.Run(ctx, input)

	state := TaskStateCompleted
	reason := ""
	if err != nil {
		failure := agent.AsFailure(err)
		state = TaskStateFailed
		reason = string(failure.Reason)

		slog.Error("task failed",
			logging.Task(task.ID),
			slog.String("reason", reason),
			logging.Err(err))

		msg := agentMessage(task, failure.UserMessage())
		s.store.SetMetadata(task.ID, "failureReason", reason)
		s.store.UpdateStatus(task.ID, TaskStatus{State: TaskStateFailed, Message: &msg, Timestamp: timestamp()}, true)
	} else {
		msg := agentMessage(task, output)
		s.store.AddArtifact(task.ID, Artifact{
			ArtifactID: uuid.NewString(),
			Name:       "answer",
			Parts:      []Part{NewTextPart(output)},
		})
		s.store.UpdateStatus(task.ID, TaskStatus{State: TaskStateCompleted, Message: &msg, Timestamp: timestamp()}, true)

		slog.Info("task completed",
			logging.Task(task.ID),
			logging.Duration(time.Since(start)))
	}

	if s.metrics != nil {
		s.metrics.RecordTask(context.WithoutCancel(ctx), state, reason, time.Since(start))
	}

	final, _ := s.store.Get(task.ID)
	return final
}

func agentMessage(task Task, text string) Message {
	return Message{
		Kind:      "message",
		MessageID: uuid.NewString(),
		Role:      "agent",
		Parts:     []Part{NewTextPart(text)},
		TaskID:    task.ID,
		ContextID: task.ContextID,
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func writeRPCResult(w http.ResponseWriter, id json.RawMessage, result any) {
	w.Header().Set("Content-Type", "application/json")
	resp := jsonrpcResponse{JSONRPC: "2.0", ID: id, Result: result}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to write rpc response", logging.Err(err))
	}
}

func writeRPCError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	resp := jsonrpcResponse{JSONRPC: "2.0", ID: id, Error: &jsonrpcError{Code: code, Message: message}}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to write rpc error", logging.Err(err))
	}
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, id json.RawMessage, result any) {
	data, err := json.Marshal(jsonrpcResponse{JSONRPC: "2.0", ID: id, Result: result})
	if err != nil {
		slog.Error("failed to marshal stream event", logging.Err(err))
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}

// withMetrics records request counts and latency. The wrapper keeps
// http.Flusher intact so SSE keeps working.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
