package agent

import (
	"context"
	"fmt"
)

// LLMConfig configures the language model backing a remote agent.
type LLMConfig struct {
	Provider         string
	Model            string
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// NewLLMConfig creates an LLM configuration with the platform defaults
// for the sampling parameters.
func NewLLMConfig(provider, model string) LLMConfig {
	return LLMConfig{
		Provider:         provider,
		Model:            model,
		Temperature:      0.7,
		TopP:             1.0,
		FrequencyPenalty: 0.1,
		PresencePenalty:  0.0,
	}
}

func (c LLMConfig) payload() map[string]interface{} {
	return map[string]interface{}{
		"provider":          c.Provider,
		"model":             c.Model,
		"temperature":       c.Temperature,
		"top_p":             c.TopP,
		"frequency_penalty": c.FrequencyPenalty,
		"presence_penalty":  c.PresencePenalty,
	}
}

// PromptConfig configures the remote agent's system prompt.
type PromptConfig struct {
	Content string
}

func (c PromptConfig) payload() map[string]interface{} {
	return map[string]interface{}{"content": c.Content}
}

// Agent is a typed facade over a named remote agent resource. Every call
// is an independent request; the remote service is the source of truth
// after creation and nothing is cached locally.
type Agent struct {
	Name        string
	Description string
	LLM         LLMConfig
	Prompt      PromptConfig

	client   *APIClient
	token    string
	endpoint string
	logger   *Logger
}

// AgentConfig holds the collaborators and settings for an Agent.
type AgentConfig struct {
	Name        string
	Description string
	LLM         LLMConfig
	Prompt      PromptConfig

	// Client is the authenticated REST client for the inference API
	Client *APIClient

	// Token is the bearer token attached to every request
	Token string

	// Endpoint optionally overrides the per-agent chat endpoint
	Endpoint string

	Logger *Logger
}

// NewAgent creates an agent facade. The token must already have been
// acquired; the facade never performs the OAuth exchange itself.
func NewAgent(cfg AgentConfig) *Agent {
	return &Agent{
		Name:        cfg.Name,
		Description: cfg.Description,
		LLM:         cfg.LLM,
		Prompt:      cfg.Prompt,
		client:      cfg.Client,
		token:       cfg.Token,
		endpoint:    cfg.Endpoint,
		logger:      cfg.Logger,
	}
}

// resourcePayload is the request body shared by Create and Update.
func (a *Agent) resourcePayload() map[string]interface{} {
	return map[string]interface{}{
		"name":        a.Name,
		"description": a.Description,
		"llm":         a.LLM.payload(),
		"prompt":      a.Prompt.payload(),
	}
}

// ChatEndpoint returns the endpoint Execute posts to: the configured
// override when present, otherwise agent/{name}/chat.
func (a *Agent) ChatEndpoint() string {
	if a.endpoint != "" {
		return a.endpoint
	}
	return JoinSegments(agentChatPrefix, a.Name, agentChatSuffix)
}

// Create registers the agent with the platform and returns the response
// body, which carries the server-assigned identifier.
func (a *Agent) Create(ctx context.Context) (map[string]interface{}, error) {
	a.logger.Info("Creating agent: %s", a.Name)

	result, err := a.client.Post(ctx, agentsCollection, a.resourcePayload(), a.token)
	if err != nil {
		a.logger.Error("Failed to create agent %s: %v", a.Name, err)
		return nil, err
	}

	if id, ok := result["id"].(string); ok {
		a.logger.Success("Agent created: %s", id)
	} else {
		a.logger.Success("Agent created: %s", a.Name)
	}
	return result, nil
}

// ExecuteOptions controls one chat/execute call.
type ExecuteOptions struct {
	// Context is the ordered prior conversation, typically
	// Session.Context()
	Context []ContextMessage

	// Streaming asks the platform to stream its answer
	Streaming bool

	// UseKnowledge enables the platform's knowledge sources
	UseKnowledge bool

	// ReturnKnowledge includes the consulted knowledge sources in the
	// response
	ReturnKnowledge bool

	// Files are attached as multipart parts, degrading the request to
	// multipart form semantics
	Files []Upload
}

// DefaultExecuteOptions returns the platform defaults: streaming on,
// knowledge sources on, knowledge echo off.
func DefaultExecuteOptions() ExecuteOptions {
	return ExecuteOptions{Streaming: true, UseKnowledge: true}
}

// Execute sends a prompt to the agent's chat endpoint and returns the
// parsed response body. Extracting the answer text is the caller's
// concern (see Chat), since the response key is deployment-defined.
func (a *Agent) Execute(ctx context.Context, prompt string, opts ExecuteOptions) (map[string]interface{}, error) {
	a.logger.Info("Executing prompt (%d chars) against %s", len(prompt), a.Name)

	contextMessages := opts.Context
	if contextMessages == nil {
		contextMessages = []ContextMessage{}
	}

	payload := map[string]interface{}{
		"user_prompt":           prompt,
		"context":               contextMessages,
		"streaming":             opts.Streaming,
		"stackspot_knowledge":   opts.UseKnowledge,
		"return_ks_in_response": opts.ReturnKnowledge,
	}

	result, err := a.client.Post(ctx, a.ChatEndpoint(), payload, a.token, opts.Files...)
	if err != nil {
		a.logger.Error("Failed to execute prompt against %s: %v", a.Name, err)
		return nil, err
	}

	a.logger.Success("Prompt executed")
	return result, nil
}

// List retrieves all agents visible to the credentials.
func (a *Agent) List(ctx context.Context) (map[string]interface{}, error) {
	a.logger.Info("Listing agents")

	result, err := a.client.Get(ctx, agentsCollection, a.token)
	if err != nil {
		a.logger.Error("Failed to list agents: %v", err)
		return nil, err
	}
	return result, nil
}

// Get retrieves this agent's details from the platform.
func (a *Agent) Get(ctx context.Context) (map[string]interface{}, error) {
	a.logger.Info("Getting agent: %s", a.Name)

	result, err := a.client.Get(ctx, JoinSegments(agentsCollection, a.Name), a.token)
	if err != nil {
		a.logger.Error("Failed to get agent %s: %v", a.Name, err)
		return nil, err
	}
	return result, nil
}

// Update pushes the local configuration to the platform, mirroring
// Create's payload shape.
func (a *Agent) Update(ctx context.Context) (map[string]interface{}, error) {
	a.logger.Info("Updating agent: %s", a.Name)

	result, err := a.client.Put(ctx, JoinSegments(agentsCollection, a.Name), a.resourcePayload(), a.token)
	if err != nil {
		a.logger.Error("Failed to update agent %s: %v", a.Name, err)
		return nil, err
	}

	a.logger.Success("Agent updated: %s", a.Name)
	return result, nil
}

// Delete removes the agent from the platform.
func (a *Agent) Delete(ctx context.Context) (map[string]interface{}, error) {
	a.logger.Info("Deleting agent: %s", a.Name)

	result, err := a.client.Delete(ctx, JoinSegments(agentsCollection, a.Name), a.token)
	if err != nil {
		a.logger.Error("Failed to delete agent %s: %v", a.Name, err)
		return nil, err
	}

	a.logger.Success("Agent deleted: %s", a.Name)
	return result, nil
}

func (a *Agent) String() string {
	return fmt.Sprintf("Agent(%s, %s/%s)", a.Name, a.LLM.Provider, a.LLM.Model)
}
