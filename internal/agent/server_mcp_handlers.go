package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleChat handles the chat tool request
func (m *MCPServer) handleChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments type"), nil
	}

	message, ok := args["message"].(string)
	if !ok || message == "" {
		return mcp.NewToolResultError("missing or invalid 'message' argument"), nil
	}

	answer, err := m.chat.Ask(ctx, message)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chat failed: %v", err)), nil
	}

	return mcp.NewToolResultText(answer), nil
}

// handleGetHistory handles the get_history tool request
func (m *MCPServer) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(m.chat.History())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal history: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

// handleClearHistory handles the clear_history tool request
func (m *MCPServer) handleClearHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m.chat.ClearHistory()
	return mcp.NewToolResultText(fmt.Sprintf("history cleared (session %s)", m.chat.Session().ID())), nil
}

// handleListAgents handles the list_agents tool request
func (m *MCPServer) handleListAgents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := m.agent.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing agents failed: %v", err)), nil
	}

	return marshalToolResult(result)
}

// handleGetAgent handles the get_agent tool request
func (m *MCPServer) handleGetAgent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := m.agent.Get(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("getting agent failed: %v", err)), nil
	}

	return marshalToolResult(result)
}

// handleCreateAgent handles the create_agent tool request
func (m *MCPServer) handleCreateAgent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := m.agent.Create(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("creating agent failed: %v", err)), nil
	}

	return marshalToolResult(result)
}

// handleUpdateAgent handles the update_agent tool request
func (m *MCPServer) handleUpdateAgent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := m.agent.Update(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("updating agent failed: %v", err)), nil
	}

	return marshalToolResult(result)
}

// handleDeleteAgent handles the delete_agent tool request
func (m *MCPServer) handleDeleteAgent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := m.agent.Delete(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("deleting agent failed: %v", err)), nil
	}

	return marshalToolResult(result)
}

// marshalToolResult renders an API response body as a text tool result.
func marshalToolResult(result map[string]interface{}) (*mcp.CallToolResult, error) {
	if result == nil {
		return mcp.NewToolResultText("{}"), nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}
