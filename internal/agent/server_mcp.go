package agent

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer exposes the chat and agent operations as MCP tools so the
// StackSpot agent can be driven from MCP hosts (AI assistants, IDEs).
type MCPServer struct {
	chat            *Chat
	agent           *Agent
	logger          *Logger
	mcpServer       *server.MCPServer
	serverTransport string
}

// NewMCPServer creates an MCP server over the given chat and agent
// facade.
func NewMCPServer(chat *Chat, agent *Agent, serverTransport string, logger *Logger) (*MCPServer, error) {
	mcpServer := server.NewMCPServer(
		"stackspot-agent",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
	)

	ms := &MCPServer{
		chat:            chat,
		agent:           agent,
		logger:          logger,
		mcpServer:       mcpServer,
		serverTransport: serverTransport,
	}

	ms.registerTools()

	return ms, nil
}

// Start starts the MCP server using stdio or streamable-http transport
func (m *MCPServer) Start(ctx context.Context, listenAddr string) error {
	switch m.serverTransport {
	case "stdio":
		return server.ServeStdio(m.mcpServer)
	case "streamable-http":
		httpServer := server.NewStreamableHTTPServer(
			m.mcpServer,
			server.WithEndpointPath("/mcp"),
		)
		return httpServer.Start(listenAddr)
	default:
		return fmt.Errorf("unsupported server transport: %s", m.serverTransport)
	}
}

// registerTools registers all MCP tools
func (m *MCPServer) registerTools() {
	chatTool := mcp.NewTool("chat",
		mcp.WithDescription("Send a message to the StackSpot agent and get its answer. The conversation history is kept server-side between calls."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The message to send to the agent"),
		),
	)
	m.mcpServer.AddTool(chatTool, m.handleChat)

	historyTool := mcp.NewTool("get_history",
		mcp.WithDescription("Return the conversation history of the current chat session"),
	)
	m.mcpServer.AddTool(historyTool, m.handleGetHistory)

	clearTool := mcp.NewTool("clear_history",
		mcp.WithDescription("Clear the conversation history while keeping the same session"),
	)
	m.mcpServer.AddTool(clearTool, m.handleClearHistory)

	listAgentsTool := mcp.NewTool("list_agents",
		mcp.WithDescription("List all agents visible to the configured credentials"),
	)
	m.mcpServer.AddTool(listAgentsTool, m.handleListAgents)

	getAgentTool := mcp.NewTool("get_agent",
		mcp.WithDescription("Get the remote configuration of the configured agent"),
	)
	m.mcpServer.AddTool(getAgentTool, m.handleGetAgent)

	createAgentTool := mcp.NewTool("create_agent",
		mcp.WithDescription("Create the configured agent on the platform"),
	)
	m.mcpServer.AddTool(createAgentTool, m.handleCreateAgent)

	updateAgentTool := mcp.NewTool("update_agent",
		mcp.WithDescription("Push the local agent configuration to the platform"),
	)
	m.mcpServer.AddTool(updateAgentTool, m.handleUpdateAgent)

	deleteAgentTool := mcp.NewTool("delete_agent",
		mcp.WithDescription("Delete the configured agent from the platform"),
	)
	m.mcpServer.AddTool(deleteAgentTool, m.handleDeleteAgent)
}
