package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

// errExit is a sentinel error used to signal REPL exit
var errExit = errors.New("exit")

// REPL is the interactive chat console. Bare input is sent to the agent
// as a chat turn; slash-free commands manage the conversation, staged
// file attachments and the remote agent resources.
type REPL struct {
	chat            *Chat
	agent           *Agent
	logger          *Logger
	rl              *readline.Instance
	attachments     []string
	commandHandlers map[string]commandHandler
}

// NewREPL creates a chat console over the given chat and agent facade.
func NewREPL(chat *Chat, agent *Agent, logger *Logger) *REPL {
	r := &REPL{
		chat:   chat,
		agent:  agent,
		logger: logger,
	}
	r.commandHandlers = r.buildCommandHandlers()
	return r
}

// Run starts the console loop and blocks until exit or context
// cancellation.
func (r *REPL) Run(ctx context.Context) error {
	historyFile := filepath.Join(os.TempDir(), ".stackspot_agent_history")

	config := &readline.Config{
		Prompt:          r.agent.Name + "> ",
		HistoryFile:     historyFile,
		AutoComplete:    r.createCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer func() { _ = rl.Close() }()
	r.rl = rl

	r.logger.Info("Chat console started (session %s). Type 'help' for commands, anything else to chat.", r.chat.Session().ID())
	fmt.Println()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Console shutting down...")
			return nil
		default:
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
		} else if err == io.EOF {
			r.logger.Info("Goodbye!")
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := r.executeCommand(ctx, input); err != nil {
			if errors.Is(err, errExit) {
				r.logger.Info("Goodbye!")
				return nil
			}
			r.logger.Error("Error: %v", err)
		}

		fmt.Println()
	}
}

// createCompleter creates the tab completion configuration
func (r *REPL) createCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("?"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
		readline.PcItem("ask"),
		readline.PcItem("history"),
		readline.PcItem("clear"),
		readline.PcItem("attach"),
		readline.PcItem("attachments"),
		readline.PcItem("detach",
			readline.PcItem("all"),
		),
		readline.PcItem("agents"),
		readline.PcItem("agent",
			readline.PcItem("get"),
			readline.PcItem("create"),
			readline.PcItem("update"),
			readline.PcItem("delete"),
		),
		readline.PcItem("verbose",
			readline.PcItem("on"),
			readline.PcItem("off"),
		),
	)
}

// filterInput filters input characters for readline
func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// commandHandler defines a console command with its handler and argument
// requirements
type commandHandler struct {
	minArgs int
	usage   string
	handler func(ctx context.Context, parts []string) error
}

// buildCommandHandlers creates the map of command handlers
func (r *REPL) buildCommandHandlers() map[string]commandHandler {
	return map[string]commandHandler{
		"help": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.showHelp()
		}},
		"?": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.showHelp()
		}},
		"exit": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return errExit
		}},
		"quit": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return errExit
		}},
		"ask": {
			minArgs: 2,
			usage:   "usage: ask <question>",
			handler: func(ctx context.Context, parts []string) error {
				return r.handleAsk(ctx, strings.Join(parts[1:], " "))
			},
		},
		"history": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.handleHistory()
		}},
		"clear": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			r.chat.ClearHistory()
			return nil
		}},
		"attach": {
			minArgs: 2,
			usage:   "usage: attach <file-path>",
			handler: func(ctx context.Context, parts []string) error {
				return r.handleAttach(strings.Join(parts[1:], " "))
			},
		},
		"attachments": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.handleAttachments()
		}},
		"detach": {
			minArgs: 2,
			usage:   "usage: detach <file-path|all>",
			handler: func(ctx context.Context, parts []string) error {
				return r.handleDetach(strings.Join(parts[1:], " "))
			},
		},
		"agents": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.handleAgents(ctx)
		}},
		"agent": {
			minArgs: 2,
			usage:   "usage: agent <get|create|update|delete>",
			handler: func(ctx context.Context, parts []string) error {
				return r.handleAgent(ctx, parts[1])
			},
		},
		"verbose": {
			minArgs: 2,
			usage:   "usage: verbose <on|off>",
			handler: func(ctx context.Context, parts []string) error {
				return r.handleVerbose(parts[1])
			},
		},
	}
}

// executeCommand parses and executes a command. Input that does not
// start with a known command is sent to the agent as a chat turn.
func (r *REPL) executeCommand(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	command := strings.ToLower(parts[0])

	handler, exists := r.commandHandlers[command]
	if !exists {
		return r.handleAsk(ctx, input)
	}

	if len(parts) < handler.minArgs {
		return errors.New(handler.usage)
	}

	return handler.handler(ctx, parts)
}

// showHelp displays available commands
func (r *REPL) showHelp() error {
	fmt.Println("Type anything to chat with the agent. Commands:")
	fmt.Println("  help, ?                  - Show this help message")
	fmt.Println("  ask <question>           - Send a chat turn (same as bare input)")
	fmt.Println("  history                  - Show the conversation so far")
	fmt.Println("  clear                    - Clear history, keep the same session")
	fmt.Println("  attach <file>            - Stage a file for the next chat turn")
	fmt.Println("  attachments              - List staged files")
	fmt.Println("  detach <file|all>        - Unstage one or all files")
	fmt.Println("  agents                   - List agents visible to the credentials")
	fmt.Println("  agent get                - Show this agent's remote configuration")
	fmt.Println("  agent create             - Create this agent on the platform")
	fmt.Println("  agent update             - Push the local configuration")
	fmt.Println("  agent delete             - Delete this agent from the platform")
	fmt.Println("  verbose <on|off>         - Toggle verbose logging")
	fmt.Println("  exit, quit               - Leave the console")
	fmt.Println()
	fmt.Println("Keyboard shortcuts:")
	fmt.Println("  TAB                      - Auto-complete commands")
	fmt.Println("  ↑/↓ (arrow keys)         - Navigate input history")
	fmt.Println("  Ctrl+R                   - Search input history")
	fmt.Println("  Ctrl+C                   - Cancel current line")
	fmt.Println("  Ctrl+D                   - Exit console")
	return nil
}
