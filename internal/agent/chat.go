package agent

import (
	"context"
	"sort"
)

// Chat composes an Agent facade with a conversation Session: each Ask
// sends the accumulated context, extracts the answer text through the
// configured response field, and records both turns in the session.
//
// Chat holds a reference to the agent operations rather than extending
// them; the agent facade stays usable on its own for resource management.
type Chat struct {
	agent         *Agent
	session       *Session
	responseField string
	logger        *Logger
}

// ChatConfig holds the collaborators for a Chat.
type ChatConfig struct {
	// Agent is the configured agent facade the chat talks to
	Agent *Agent

	// Session optionally seeds the conversation; a fresh session is
	// created when nil
	Session *Session

	// ResponseField is the response key carrying the answer text
	// (default DefaultResponseField). The platform is inconsistent
	// about this key across deployments, so it is per-deployment
	// configuration.
	ResponseField string

	Logger *Logger
}

// NewChat creates a chat over the given agent.
func NewChat(cfg ChatConfig) *Chat {
	session := cfg.Session
	if session == nil {
		session = NewSession()
	}
	responseField := cfg.ResponseField
	if responseField == "" {
		responseField = DefaultResponseField
	}
	return &Chat{
		agent:         cfg.Agent,
		session:       session,
		responseField: responseField,
		logger:        cfg.Logger,
	}
}

// Session returns the underlying conversation session.
func (c *Chat) Session() *Session { return c.session }

// Ask sends one chat turn with the accumulated conversation context and
// returns the answer text. On success the question and the answer are
// appended to the session; a failed turn leaves the session untouched.
func (c *Chat) Ask(ctx context.Context, question string) (string, error) {
	return c.ask(ctx, question, nil)
}

// AskWithFiles sends one chat turn with attached files. The request
// degrades to multipart form semantics; see APIClient.Post.
func (c *Chat) AskWithFiles(ctx context.Context, question string, files []Upload) (string, error) {
	return c.ask(ctx, question, files)
}

func (c *Chat) ask(ctx context.Context, question string, files []Upload) (string, error) {
	opts := DefaultExecuteOptions()
	opts.Context = c.session.Context()
	opts.Files = files

	result, err := c.agent.Execute(ctx, question, opts)
	if err != nil {
		return "", err
	}

	answer, err := c.extractAnswer(result)
	if err != nil {
		c.logger.Error("Unexpected response shape: %v", err)
		return "", err
	}

	c.session.AddMessage(RoleUser, question)
	c.session.AddMessage(RoleAssistant, answer)
	return answer, nil
}

// extractAnswer pulls the answer text out of a chat response. A missing
// key or a non-string value is a ResponseShapeError, never an empty
// default.
func (c *Chat) extractAnswer(result map[string]interface{}) (string, error) {
	if answer, ok := result[c.responseField].(string); ok {
		return answer, nil
	}

	keys := make([]string, 0, len(result))
	for key := range result {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return "", &ResponseShapeError{Field: c.responseField, Keys: keys}
}

// History returns a copy of the conversation so far.
func (c *Chat) History() []Message {
	return c.session.Messages()
}

// ClearHistory empties the conversation while keeping the same
// conversation ID.
func (c *Chat) ClearHistory() {
	c.session.Clear()
	c.logger.Info("Conversation history cleared (session %s)", c.session.ID())
}
