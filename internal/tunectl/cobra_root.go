package tunectl

import (
	"os"

	"github.com/spf13/cobra"
)

// buildRootCmd constructs the Cobra command tree wired to the fn* actions.
func buildRootCmd(opts *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "tunectl",
		Short:         "Orchestrate LoRA fine-tuning and evaluation runs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", opts.ConfigPath, "Run configuration file (.yaml/.json/.toml)")
	root.PersistentFlags().StringVar(&opts.LogLvl, "log-level", opts.LogLvl, "Log level: debug|info|warn|error (defaults TUNECTL_LOG_LEVEL or info)")
	root.PersistentFlags().BoolVar(&opts.DryRun, "dry-run", false, "Print the constructed command line instead of executing it")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		SetLogLevel(opts.LogLvl)
	}

	bootstrapCmd := &cobra.Command{
		Use:     "bootstrap",
		Short:   "Install the fine-tuning toolkit, eval harness and tracker, then download the checkpoint",
		Example: "  tunectl bootstrap --config run.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sec, err := buildRunConfig(opts)
			if err != nil {
				return err
			}
			return timedStage("bootstrap", func() error { return fnBootstrap(cmd.Context(), cfg, sec, opts) })
		},
	}

	finetuneCmd := &cobra.Command{
		Use:     "finetune",
		Short:   "Launch one LoRA fine-tuning run",
		Example: "  tunectl finetune --config run.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sec, err := buildRunConfig(opts)
			if err != nil {
				return err
			}
			return timedStage("finetune", func() error { return fnFinetune(cmd.Context(), cfg, sec, opts) })
		},
	}

	evaluateCmd := &cobra.Command{
		Use:     "evaluate",
		Short:   "Score a trained checkpoint with the evaluation harness",
		Example: "  tunectl evaluate --config run.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sec, err := buildRunConfig(opts)
			if err != nil {
				return err
			}
			return timedStage("evaluate", func() error { return fnEvaluate(cmd.Context(), cfg, sec, opts) })
		},
	}

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert the fine-tuned lit checkpoint to HuggingFace layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := buildRunConfig(opts)
			if err != nil {
				return err
			}
			return timedStage("convert", func() error { return fnConvert(cmd.Context(), cfg, opts) })
		},
	}

	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Full pipeline: bootstrap, fine-tune, convert (optional), evaluate",
		Example: "  tunectl run --config run.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sec, err := buildRunConfig(opts)
			if err != nil {
				return err
			}
			return fnRun(cmd.Context(), cfg, sec, opts)
		},
	}

	submitCmd := &cobra.Command{
		Use:     "submit",
		Short:   "Submit the pipeline as a single-GPU SLURM batch job",
		Example: "  tunectl submit --config run.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := buildRunConfig(opts)
			if err != nil {
				return err
			}
			return fnSubmit(cmd.Context(), cfg, opts)
		},
	}

	root.AddCommand(bootstrapCmd, finetuneCmd, evaluateCmd, convertCmd, runCmd, submitCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(os.Stdout) }})
	root.AddCommand(completionCmd)

	return root
}
