package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/script"
	"github.com/aretw0/espalier/pkg/shell"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RunResponse carries the outcome of an expect script run.
type RunResponse struct {
	ID     string        `json:"id" jsonschema_description:"Transcript ID for later retrieval"`
	Result domain.Result `json:"result" jsonschema_description:"Final status, action events and captured terminal output"`
}

func (s *Server) registerTools() {
	handlers := map[string]server.ToolHandlerFunc{
		"run_command":     s.handleRunCommand,
		"get_current_dir": s.handleGetCurrentDir,
		"change_dir":      s.handleChangeDir,
	}

	for _, info := range Tools() {
		// run_expect_script carries a structured output schema and a
		// typed handler.
		if info.Name == "run_expect_script" {
			tool := catalogTool(info, mcp.WithOutputSchema[RunResponse]())
			s.mcpServer.AddTool(tool, mcp.NewStructuredToolHandler(s.handleRunExpectScript))
			continue
		}
		s.mcpServer.AddTool(catalogTool(info), handlers[info.Name])
	}
}

func catalogTool(info ToolInfo, extra ...mcp.ToolOption) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(info.Description)}
	for _, p := range info.Params {
		var propOpts []mcp.PropertyOption
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		propOpts = append(propOpts, mcp.Description(p.Description))
		opts = append(opts, mcp.WithString(p.Name, propOpts...))
	}
	opts = append(opts, extra...)
	return mcp.NewTool(info.Name, opts...)
}

func (s *Server) handleRunCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	workdir := optionalString(request, "workdir")
	stdin := optionalString(request, "stdin")

	slog.Info("Received run_command request", "command", command, "workdir", workdir)
	s.harness.CountToolCall("run_command")

	var opts []shell.ExecOption
	if workdir != "" {
		opts = append(opts, shell.WithDir(workdir))
	}
	if stdin != "" {
		opts = append(opts, shell.WithStdin(stdin))
	}

	result, err := s.harness.ExecCommand(ctx, command, opts...)
	if errors.Is(err, shell.ErrCommandBlocked) {
		return mcp.NewToolResultError(formatResult(result)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("exec failed: %v", err)), nil
	}

	formatted := formatResult(result)
	if result.IsError() {
		return mcp.NewToolResultError(formatted), nil
	}
	return mcp.NewToolResultText(formatted), nil
}

func (s *Server) handleRunExpectScript(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	program, _ := args["program"].(string)
	if strings.TrimSpace(program) == "" {
		return RunResponse{}, fmt.Errorf("program is required")
	}

	parsed, err := parseActions(args["actions"])
	if err != nil {
		return RunResponse{}, err
	}

	slog.Info("running expect script", "program", program, "actions", len(parsed))
	s.harness.CountToolCall("run_expect_script")

	transcript, err := s.harness.RunScript(ctx, program, parsed)
	if err != nil {
		return RunResponse{}, err
	}

	return RunResponse{ID: transcript.ID, Result: transcript.Result}, nil
}

func (s *Server) handleGetCurrentDir(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.harness.CountToolCall("get_current_dir")

	cwd, err := os.Getwd()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("getwd failed: %v", err)), nil
	}

	slog.Info("Received get_current_dir request", "dir", cwd)
	return mcp.NewToolResultText(cwd), nil
}

func (s *Server) handleChangeDir(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := request.RequireString("c_dir")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	slog.Info("Received change_dir request", "dir", dir)
	s.harness.CountToolCall("change_dir")

	expanded := ExpandDir(dir)
	if err := os.Chdir(expanded); err != nil {
		slog.Info("invalid dir", "dir", expanded)
		return mcp.NewToolResultText("error: invalid directory"), nil
	}

	return mcp.NewToolResultText(expanded), nil
}

// ExpandDir resolves $HOME references and a leading ~ in a directory
// path.
func ExpandDir(dir string) string {
	if strings.Contains(dir, "$HOME") {
		return strings.ReplaceAll(dir, "$HOME", os.Getenv("HOME"))
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + dir[1:]
		}
	}
	return dir
}

// parseActions accepts either a JSON-encoded string or a decoded array
// of {action, text} records.
func parseActions(raw any) (domain.Script, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("actions is required")
	case string:
		var records any
		if err := json.Unmarshal([]byte(v), &records); err != nil {
			return nil, fmt.Errorf("invalid actions JSON: %w", err)
		}
		return script.Parse(records)
	default:
		return script.Parse(v)
	}
}

// formatResult renders a shell result the way clients expect it: the
// exit code first, then stdout and stderr when present.
func formatResult(result *shell.Result) string {
	parts := []string{fmt.Sprintf("EXIT_CODE: %d", result.ExitCode)}
	if result.Stdout != "" {
		parts = append(parts, "STDOUT:\n"+result.Stdout)
	}
	if result.Stderr != "" {
		parts = append(parts, "STDERR:\n"+result.Stderr)
	}
	return strings.Join(parts, "\n")
}

func optionalString(request mcp.CallToolRequest, key string) string {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		if val, ok := args[key].(string); ok {
			return val
		}
	}
	return ""
}
