package agent

// Default StackSpot platform URLs. Both can be overridden through
// configuration; the inference URL already carries the API version path.
const (
	// DefaultAuthURL is the identity service issuing OAuth tokens
	DefaultAuthURL = "https://idm.stackspot.com"

	// DefaultInferenceURL is the agent inference API base URL
	DefaultInferenceURL = "https://genai-inference-app.stackspot.com/v1"
)

// Token endpoint path segments under {auth_base}/{realm}.
const (
	tokenPathOIDC  = "oidc"
	tokenPathOAuth = "oauth"
	tokenPathToken = "token"
)

// Resource path segments of the inference API.
const (
	// agentsCollection is the agents collection endpoint
	agentsCollection = "agents"

	// agentChatPrefix is the per-agent chat endpoint prefix (agent/{id}/chat)
	agentChatPrefix = "agent"

	// agentChatSuffix terminates the per-agent chat endpoint
	agentChatSuffix = "chat"
)

// DefaultResponseField is the response key carrying the answer text.
// The platform is not consistent about this across deployments ("response"
// vs "message"), so it is a configuration point rather than a constant
// baked into the chat layer.
const DefaultResponseField = "response"

// Conversation roles. The wire contract treats the role as an open set;
// these are the two values this client produces.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
