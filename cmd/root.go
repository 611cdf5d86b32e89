package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stackspot-labs/stackspot-agent/internal/agent"
)

var (
	version string

	cfgFile         string
	verbose         bool
	noColor         bool
	httpTrace       bool
	oneShotPrompt   string
	attachFiles     []string
	mcpServer       bool
	serverTransport string
	listenAddr      string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stackspot-agent",
	Short: "Chat console and client for StackSpot AI agents",
	Long: `stackspot-agent is a client and chat console for the StackSpot AI
agent platform.

It authenticates with OAuth client credentials, manages remote agent
resources, and chats with a configured agent while keeping the
conversation context across turns.

The tool supports multiple modes:
- Console mode (default): Interactive chat with history and file attachments
- One-shot mode (--prompt): Send a single prompt and print the answer
- MCP Server mode (--mcp-server): Expose chat and agent operations as MCP
  tools for integration with AI assistants

Credentials and endpoints come from flags, STACKSPOT_* environment
variables, a .env file, or a stackspot-agent.yaml config file. Required:
realm, client ID, client secret, and the agent ID to chat with.

In console mode, you can:
- Chat with the agent (bare input is a chat turn)
- Review and clear the conversation history
- Stage files to attach to the next turn
- Create, inspect, update and delete the remote agent

In MCP Server mode:
- The chat and agent operations are exposed as MCP tools
- Transport is stdio by default, or streamable-http with --server-transport
- Configure it in your AI assistant's MCP settings`,
	RunE: runConsole,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version for the application
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&cfgFile, "config", "", "Config file (default: ./stackspot-agent.yaml)")
	pflags.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	pflags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	pflags.BoolVar(&httpTrace, "http-trace", false, "Log full HTTP request/response payloads")

	pflags.String("realm", "", "StackSpot account realm")
	pflags.String("client-id", "", "OAuth client ID")
	pflags.String("client-secret", "", "OAuth client secret (prefer STACKSPOT_CLIENT_SECRET)")
	pflags.String("auth-url", agent.DefaultAuthURL, "Identity service base URL")
	pflags.String("inference-url", agent.DefaultInferenceURL, "Inference API base URL")
	pflags.String("agent-id", "", "Remote agent to chat with")
	pflags.String("chat-endpoint", "", "Override the agent/{id}/chat endpoint")
	pflags.String("response-field", agent.DefaultResponseField, "Response key carrying the answer text")

	rootCmd.Flags().StringVar(&oneShotPrompt, "prompt", "", "Send a single prompt and exit")
	rootCmd.Flags().StringSliceVar(&attachFiles, "file", nil, "File to attach to the prompt (repeatable)")
	rootCmd.Flags().BoolVar(&mcpServer, "mcp-server", false, "Run as MCP server instead of the chat console")
	rootCmd.Flags().StringVar(&serverTransport, "server-transport", "stdio", "Transport for the MCP server (stdio, streamable-http)")
	rootCmd.Flags().StringVar(&listenAddr, "listen-addr", ":8899", "Listen address for streamable-http server (path is fixed to /mcp)")

	rootCmd.AddCommand(newSelfUpdateCmd())

	rootCmd.MarkFlagsMutuallyExclusive("prompt", "mcp-server")
}

// loadConfig assembles the immutable configuration from the .env file,
// environment, config file and flags, in increasing precedence of flags.
func loadConfig(cmd *cobra.Command) (*agent.Config, error) {
	// A missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	v := agent.NewViper(cfgFile)
	bindFlag(v, "realm", cmd)
	bindFlag(v, "client_id", cmd)
	bindFlag(v, "client_secret", cmd)
	bindFlag(v, "auth_url", cmd)
	bindFlag(v, "inference_url", cmd)
	bindFlag(v, "agent_id", cmd)
	bindFlag(v, "chat_endpoint", cmd)
	bindFlag(v, "response_field", cmd)
	bindFlag(v, "upload_url", cmd)

	return agent.LoadConfig(v)
}

// bindFlag binds a config key to its dashed persistent flag when the
// flag was actually set, so flag defaults do not mask env/file values.
func bindFlag(v *viper.Viper, key string, cmd *cobra.Command) {
	flagName := strings.ReplaceAll(key, "_", "-")
	flag := cmd.Root().PersistentFlags().Lookup(flagName)
	if flag != nil && flag.Changed {
		_ = v.BindPFlag(key, flag)
	}
}

// setupSignalHandler sets up graceful shutdown on interrupt signals
func setupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		if !mcpServer {
			fmt.Println("\nReceived interrupt signal, shutting down gracefully...")
		}
		cancel()
	}()
}

// buildChat authenticates and wires the token provider, REST client,
// agent facade and chat together from the validated configuration.
func buildChat(ctx context.Context, cfg *agent.Config, logger *agent.Logger) (*agent.Chat, *agent.Agent, error) {
	tokens := agent.NewTokenProvider(cfg.AuthURL, cfg.Realm, logger)
	token, err := tokens.Token(ctx, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return nil, nil, err
	}

	client := agent.NewAPIClient(cfg.InferenceURL, logger)
	ag := agent.NewAgent(agent.AgentConfig{
		Name:     cfg.AgentID,
		Client:   client,
		Token:    token,
		Endpoint: cfg.ChatEndpoint,
		Logger:   logger,
	})

	chat := agent.NewChat(agent.ChatConfig{
		Agent:         ag,
		ResponseField: cfg.ResponseField,
		Logger:        logger,
	})

	return chat, ag, nil
}

// runMCPServer runs the chat in MCP server mode
func runMCPServer(ctx context.Context, chat *agent.Chat, ag *agent.Agent, logger *agent.Logger) error {
	server, err := agent.NewMCPServer(chat, ag, serverTransport, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	logger.Info("Starting stackspot-agent MCP server (transport: %s)...", serverTransport)
	if serverTransport == "streamable-http" {
		addr := listenAddr
		if !strings.Contains(addr, ":") {
			addr = ":" + addr
		}
		logger.Info("Listening on %s%s", addr, "/mcp")
	}

	if err := server.Start(ctx, listenAddr); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

// runOneShot sends a single prompt and prints the answer
func runOneShot(ctx context.Context, chat *agent.Chat) error {
	var files []agent.Upload
	for _, path := range attachFiles {
		files = append(files, agent.FileUpload("file", path))
	}

	var answer string
	var err error
	if len(files) > 0 {
		answer, err = chat.AskWithFiles(ctx, oneShotPrompt, files)
	} else {
		answer, err = chat.Ask(ctx, oneShotPrompt)
	}
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	setupSignalHandler(cancel)

	logger := agent.NewLogger(verbose, !noColor, httpTrace)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateForChat(); err != nil {
		return err
	}

	chat, ag, err := buildChat(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if mcpServer {
		return runMCPServer(ctx, chat, ag, logger)
	}

	if oneShotPrompt != "" {
		return runOneShot(ctx, chat)
	}

	repl := agent.NewREPL(chat, ag, logger)
	if err := repl.Run(ctx); err != nil {
		return fmt.Errorf("console error: %w", err)
	}
	return nil
}
