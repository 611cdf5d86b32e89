package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stackspot-labs/stackspot-agent/internal/agent"
)

var (
	agentName        string
	agentDescription string
	agentProvider    string
	agentModel       string
	agentTemperature float64
	agentTopP        float64
	agentFreqPenalty float64
	agentPresPenalty float64
	agentPromptText  string
	agentPromptFile  string
)

// agentCmd groups the remote agent resource operations
var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage remote agent resources",
	Long: `The agent command manages agent resources on the StackSpot platform:
create, list, inspect, update and delete.

An agent is a named remote configuration (LLM plus system prompt) exposed
by the platform as a conversational endpoint. After creation the platform
is the source of truth; these commands always reflect the remote state.`,
}

func init() {
	rootCmd.AddCommand(agentCmd)

	agentCmd.PersistentFlags().StringVar(&agentName, "name", "", "Agent name (also the remote identifier)")

	for _, sub := range []*cobra.Command{agentCreateCmd, agentUpdateCmd} {
		sub.Flags().StringVar(&agentDescription, "description", "", "Agent description")
		sub.Flags().StringVar(&agentProvider, "provider", "", "LLM provider")
		sub.Flags().StringVar(&agentModel, "model", "", "LLM model")
		sub.Flags().Float64Var(&agentTemperature, "temperature", 0.7, "Sampling temperature (0-2)")
		sub.Flags().Float64Var(&agentTopP, "top-p", 1.0, "Nucleus sampling cutoff")
		sub.Flags().Float64Var(&agentFreqPenalty, "frequency-penalty", 0.1, "Frequency penalty")
		sub.Flags().Float64Var(&agentPresPenalty, "presence-penalty", 0.0, "Presence penalty")
		sub.Flags().StringVar(&agentPromptText, "system-prompt", "", "System prompt content")
		sub.Flags().StringVar(&agentPromptFile, "system-prompt-file", "", "File with the system prompt content")
		sub.MarkFlagsMutuallyExclusive("system-prompt", "system-prompt-file")
	}

	agentCmd.AddCommand(agentCreateCmd)
	agentCmd.AddCommand(agentListCmd)
	agentCmd.AddCommand(agentGetCmd)
	agentCmd.AddCommand(agentUpdateCmd)
	agentCmd.AddCommand(agentDeleteCmd)
}

var agentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an agent on the platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgentOp(cmd, func(ctx context.Context, ag *agent.Agent) (map[string]interface{}, error) {
			return ag.Create(ctx)
		})
	},
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all agents visible to the credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgentOp(cmd, func(ctx context.Context, ag *agent.Agent) (map[string]interface{}, error) {
			return ag.List(ctx)
		})
	},
}

var agentGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show an agent's remote configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgentOp(cmd, func(ctx context.Context, ag *agent.Agent) (map[string]interface{}, error) {
			return ag.Get(ctx)
		})
	},
}

var agentUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Push a local agent configuration to the platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgentOp(cmd, func(ctx context.Context, ag *agent.Agent) (map[string]interface{}, error) {
			return ag.Update(ctx)
		})
	},
}

var agentDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an agent from the platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgentOp(cmd, func(ctx context.Context, ag *agent.Agent) (map[string]interface{}, error) {
			return ag.Delete(ctx)
		})
	},
}

// runAgentOp authenticates, builds the agent facade from the flags and
// executes one operation, printing the response body.
func runAgentOp(cmd *cobra.Command, op func(context.Context, *agent.Agent) (map[string]interface{}, error)) error {
	ctx := cmd.Context()

	logger := agent.NewLogger(verbose, !noColor, httpTrace)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	name := agentName
	if name == "" {
		name = cfg.AgentID
	}

	prompt, err := resolvePrompt()
	if err != nil {
		return err
	}

	llm := agent.NewLLMConfig(agentProvider, agentModel)
	if cmd.Flags().Changed("temperature") {
		llm.Temperature = agentTemperature
	}
	if cmd.Flags().Changed("top-p") {
		llm.TopP = agentTopP
	}
	if cmd.Flags().Changed("frequency-penalty") {
		llm.FrequencyPenalty = agentFreqPenalty
	}
	if cmd.Flags().Changed("presence-penalty") {
		llm.PresencePenalty = agentPresPenalty
	}

	tokens := agent.NewTokenProvider(cfg.AuthURL, cfg.Realm, logger)
	token, err := tokens.Token(ctx, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return err
	}

	ag := agent.NewAgent(agent.AgentConfig{
		Name:        name,
		Description: agentDescription,
		LLM:         llm,
		Prompt:      agent.PromptConfig{Content: prompt},
		Client:      agent.NewAPIClient(cfg.InferenceURL, logger),
		Token:       token,
		Logger:      logger,
	})

	result, err := op(ctx, ag)
	if err != nil {
		return err
	}

	if result != nil {
		fmt.Println(agent.PrettyJSON(result))
	}
	return nil
}

// resolvePrompt returns the system prompt from the flag or file.
func resolvePrompt() (string, error) {
	if agentPromptFile == "" {
		return agentPromptText, nil
	}
	content, err := os.ReadFile(agentPromptFile)
	if err != nil {
		return "", fmt.Errorf("failed to read system prompt file: %w", err)
	}
	return string(content), nil
}
