package agent

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// handleAsk sends one chat turn, attaching any staged files. Staged
// files are consumed by the turn regardless of outcome; a failed upload
// should be re-staged explicitly rather than silently retried.
func (r *REPL) handleAsk(ctx context.Context, question string) error {
	var files []Upload
	for _, path := range r.attachments {
		files = append(files, FileUpload("file", path))
	}
	r.attachments = nil

	var answer string
	var err error
	if len(files) > 0 {
		answer, err = r.chat.AskWithFiles(ctx, question, files)
	} else {
		answer, err = r.chat.Ask(ctx, question)
	}
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

// handleHistory prints the conversation so far.
func (r *REPL) handleHistory() error {
	messages := r.chat.History()
	if len(messages) == 0 {
		fmt.Println("No messages yet.")
		return nil
	}

	fmt.Printf("Conversation (%d messages, session %s):\n", len(messages), r.chat.Session().ID())
	for _, msg := range messages {
		fmt.Printf("  [%s] %-9s %s\n", msg.Timestamp.Format("15:04:05"), msg.Role+":", msg.Content)
	}
	return nil
}

// handleAttach stages a file for the next chat turn.
func (r *REPL) handleAttach(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot attach %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot attach %s: is a directory", path)
	}

	r.attachments = append(r.attachments, path)
	fmt.Printf("Staged %s (%d bytes) for the next turn\n", path, info.Size())
	return nil
}

// handleAttachments lists the staged files.
func (r *REPL) handleAttachments() error {
	if len(r.attachments) == 0 {
		fmt.Println("No files staged.")
		return nil
	}

	fmt.Printf("Staged files (%d):\n", len(r.attachments))
	for i, path := range r.attachments {
		fmt.Printf("  %d. %s\n", i+1, path)
	}
	return nil
}

// handleDetach unstages one file, or all of them.
func (r *REPL) handleDetach(target string) error {
	if strings.EqualFold(target, "all") {
		r.attachments = nil
		fmt.Println("All staged files removed.")
		return nil
	}

	for i, path := range r.attachments {
		if path == target {
			r.attachments = append(r.attachments[:i], r.attachments[i+1:]...)
			fmt.Printf("Removed %s\n", target)
			return nil
		}
	}
	return fmt.Errorf("not staged: %s", target)
}

// handleAgents lists all agents visible to the credentials.
func (r *REPL) handleAgents(ctx context.Context) error {
	result, err := r.agent.List(ctx)
	if err != nil {
		return err
	}

	fmt.Println(PrettyJSON(result))
	return nil
}

// handleAgent dispatches the agent management subcommands.
func (r *REPL) handleAgent(ctx context.Context, action string) error {
	var result map[string]interface{}
	var err error

	switch strings.ToLower(action) {
	case "get":
		result, err = r.agent.Get(ctx)
	case "create":
		result, err = r.agent.Create(ctx)
	case "update":
		result, err = r.agent.Update(ctx)
	case "delete":
		result, err = r.agent.Delete(ctx)
	default:
		return fmt.Errorf("unknown agent action: %s. Use 'get', 'create', 'update' or 'delete'", action)
	}
	if err != nil {
		return err
	}

	if result != nil {
		fmt.Println(PrettyJSON(result))
	}
	return nil
}

// handleVerbose toggles verbose logging.
func (r *REPL) handleVerbose(setting string) error {
	switch strings.ToLower(setting) {
	case "on":
		r.logger.SetVerbose(true)
		fmt.Println("Verbose logging enabled")
	case "off":
		r.logger.SetVerbose(false)
		fmt.Println("Verbose logging disabled")
	default:
		return fmt.Errorf("invalid setting: %s. Use 'on' or 'off'", setting)
	}
	return nil
}
