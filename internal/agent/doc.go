// Package agent provides an authenticated client and chat console for the
// StackSpot AI agent platform.
//
// The package covers the full request lifecycle against the platform:
// OAuth client-credentials token acquisition, an authenticated REST client
// with JSON and multipart support, typed operations over remote agent
// resources, an in-memory conversation session that supplies multi-turn
// context, and two front-ends (a readline REPL and an MCP server) built on
// top of the chat composition.
//
// # Key Components
//
//   - TokenProvider: exchanges client credentials for a bearer token
//   - APIClient: authenticated GET/POST/PUT/DELETE facade over a base URL
//   - Agent: create/execute/list/get/update/delete for a remote agent
//   - Session: ordered conversation history sent as chat context
//   - Chat: agent operations plus session, answer extraction, file turns
//   - FileUploader: presigned-form uploads to the platform's S3 storage
//   - REPL: interactive chat console with agent management commands
//   - MCPServer: exposes chat and agent operations as MCP tools
//   - Logger: formatted logging with color support and request tracing
package agent
