package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/onlylist/internal/logging"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/session"
	"github.com/aretw0/onlylist/pkg/tasklist"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TasksURI addresses the task list resource.
const TasksURI = "onlylist://tasks"

// TaskView is one task as seen by an agent. Index is the position tools address.
type TaskView struct {
	Index     int    `json:"index" jsonschema_description:"Zero-based position of the task"`
	Text      string `json:"text" jsonschema_description:"Task description"`
	Completed bool   `json:"completed" jsonschema_description:"Whether the task is done"`
}

// ListResponse is returned by every tool so agents always see the resulting list.
type ListResponse struct {
	Tasks  []TaskView `json:"tasks" jsonschema_description:"The task list after the call"`
	Notice string     `json:"notice,omitempty" jsonschema_description:"Warning shown to the user, if any"`
}

// Server exposes the task list as an MCP server.
type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance. A nil logger discards.
func NewServer(sessions *session.Manager, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		sessions:  sessions,
		mcpServer: server.NewMCPServer("onlylist-mcp", version),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on addr using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List every task with its position and completion state."),
		mcp.WithOutputSchema[ListResponse](),
	), mcp.NewStructuredToolHandler(s.handleListTasks))

	s.mcpServer.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Append a new, incomplete task to the end of the list."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Task description")),
		mcp.WithOutputSchema[ListResponse](),
	), mcp.NewStructuredToolHandler(s.handleAddTask))

	s.mcpServer.AddTool(mcp.NewTool("update_task",
		mcp.WithDescription("Replace the text of the task at the given position."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based task position")),
		mcp.WithString("text", mcp.Required(), mcp.Description("New task description")),
		mcp.WithOutputSchema[ListResponse](),
	), mcp.NewStructuredToolHandler(s.handleUpdateTask))

	s.mcpServer.AddTool(mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip the completion state of the task at the given position."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based task position")),
		mcp.WithOutputSchema[ListResponse](),
	), mcp.NewStructuredToolHandler(s.handleToggleTask))

	s.mcpServer.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Remove the task at the given position. Later tasks move up by one."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based task position")),
		mcp.WithOutputSchema[ListResponse](),
	), mcp.NewStructuredToolHandler(s.handleDeleteTask))
}

// Handler methods for structured tools

func (s *Server) handleListTasks(ctx context.Context, _ mcp.CallToolRequest, _ map[string]interface{}) (ListResponse, error) {
	view, err := s.sessions.View(ctx)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list failed: %w", err)
	}
	return toResponse(view, ""), nil
}

func (s *Server) handleAddTask(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (ListResponse, error) {
	text, _ := args["text"].(string)
	return s.turn(ctx, "add", func(ctx context.Context, st *tasklist.Store) error {
		return st.AddTask(ctx, text)
	})
}

func (s *Server) handleUpdateTask(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (ListResponse, error) {
	index, err := indexArg(args)
	if err != nil {
		return ListResponse{}, err
	}
	text, _ := args["text"].(string)
	return s.turn(ctx, "update", func(ctx context.Context, st *tasklist.Store) error {
		return st.UpdateTask(ctx, index, text)
	})
}

func (s *Server) handleToggleTask(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (ListResponse, error) {
	index, err := indexArg(args)
	if err != nil {
		return ListResponse{}, err
	}
	return s.turn(ctx, "toggle", func(ctx context.Context, st *tasklist.Store) error {
		return st.ToggleComplete(ctx, index)
	})
}

func (s *Server) handleDeleteTask(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (ListResponse, error) {
	index, err := indexArg(args)
	if err != nil {
		return ListResponse{}, err
	}
	return s.turn(ctx, "delete", func(ctx context.Context, st *tasklist.Store) error {
		return st.DeleteTask(ctx, index)
	})
}

// turn runs fn as one turn. Rejected input is not a tool failure: the agent gets the
// unchanged list and the notice the user would have seen.
func (s *Server) turn(ctx context.Context, name string, fn func(context.Context, *tasklist.Store) error) (ListResponse, error) {
	var view domain.View
	err := s.sessions.Do(ctx, func(ctx context.Context, st *tasklist.Store) error {
		err := fn(ctx, st)
		view = st.View()
		return err
	})

	var ve *domain.ValidationError
	switch {
	case err == nil:
		return toResponse(view, ""), nil
	case errors.As(err, &ve):
		s.logger.Debug("MCP: input rejected", "tool", name, "kind", ve.Kind)
		return toResponse(view, ve.Kind.Message()), nil
	default:
		s.logger.Warn("MCP: tool failed", "tool", name, "err", err)
		return ListResponse{}, fmt.Errorf("%s failed: %w", name, err)
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TasksURI, "Task List",
		mcp.WithResourceDescription("The persisted task list as a JSON array of {text, completed}"),
		mcp.WithMIMEType("application/json"),
	), s.readTasks)
}

func (s *Server) readTasks(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	view, err := s.sessions.View(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	jsonBytes, err := json.Marshal(view.Tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      TasksURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func indexArg(args map[string]interface{}) (int, error) {
	switch v := args["index"].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("index must be an integer, got %v", v)
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("index is required")
	}
}

func toResponse(v domain.View, notice string) ListResponse {
	tasks := make([]TaskView, len(v.Tasks))
	for i, t := range v.Tasks {
		tasks[i] = TaskView{Index: i, Text: t.Text, Completed: t.Completed}
	}
	return ListResponse{Tasks: tasks, Notice: notice}
}
