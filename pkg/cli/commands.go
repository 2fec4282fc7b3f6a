package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghostmind-dev/run/internal/engine"
	"github.com/ghostmind-dev/run/pkg/config"
	"github.com/ghostmind-dev/run/pkg/executor"
	"github.com/ghostmind-dev/run/pkg/invocation"
	"github.com/ghostmind-dev/run/pkg/logger"
	"github.com/ghostmind-dev/run/pkg/notifier"
	"github.com/ghostmind-dev/run/pkg/task"
	"github.com/ghostmind-dev/run/pkg/types"
)

func newScriptCmd() *cobra.Command {
	var watchPaths []string

	cmd := &cobra.Command{
		Use:   "script <module> [tokens...]",
		Short: "Invoke a task module",
		Long: `Invoke a registered task module. Every token after the module name
is handed to the module unmodified: key=value and --key=value tokens
become named arguments, bare --key tokens become flags, everything
else is positional. Task names select specific tasks and --all runs
the whole map.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(watchPaths) > 0 {
				return runScriptWatch(args[0], args[1:], watchPaths)
			}
			return runScript(args[0], args[1:])
		},
	}

	// Tokens after the module name belong to the module, not to cobra.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringSliceVar(&watchPaths, "watch", nil, "re-invoke the module when files under these paths change")

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered task modules",
		Long:  `List every task module registered with this binary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long:  `Check that the configuration file is valid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("run v%s\n", version)
		},
	}
}

// Implementation functions

func runScript(moduleName string, tokens []string) error {
	cfgManager := config.NewManager()
	cfg, err := cfgManager.LoadConfigOrDefault(getConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := createRunLogger(cfg)

	module, err := task.DefaultRegistry().Lookup(moduleName)
	if err != nil {
		return err
	}

	inv, err := invocation.NewContext(tokens)
	if err != nil {
		return fmt.Errorf("failed to build invocation context: %w", err)
	}

	notify := createNotifier(cfg, log)

	printInfo(fmt.Sprintf("Invoking module: %s", moduleName))
	notify.NotifyRunStart(moduleName)

	startTime := time.Now()
	err = invokeModule(context.Background(), module, inv, cfg, log)
	duration := time.Since(startTime)

	if err != nil {
		notify.NotifyRunFailure(moduleName, err)

		var abort *engine.AbortError
		if errors.As(err, &abort) {
			printError(fmt.Sprintf("Run failed (%.2fs): %v", duration.Seconds(), abort))
			return err
		}

		var noSelection *task.NoSelectionError
		if errors.As(err, &noSelection) {
			printWarning(noSelection.Error())
			return err
		}

		printError(fmt.Sprintf("Module %s failed: %v", moduleName, err))
		return err
	}

	notify.NotifyRunSuccess(moduleName, duration)
	printSuccess(fmt.Sprintf("Module %s completed (%.2fs)", moduleName, duration.Seconds()))
	return nil
}

// invokeModule builds the capability object and hands control to the
// consumer module. The scheduler entry point is bound to this
// invocation's context so every Start call shares one snapshot.
func invokeModule(ctx context.Context, module task.ModuleFunc, inv *invocation.Context, cfg *types.RunConfig, log logger.Logger) error {
	exec := executor.New(log, inv.WorkingDirectory(), inv.Environment())
	scheduler := engine.NewScheduler(log, exec, cfg.Scheduling)

	start := func(ctx context.Context, tasks map[string]types.Spec) (*types.RunOutcome, error) {
		return scheduler.Start(ctx, inv, tasks)
	}

	capability := task.NewCapability(inv, start, task.Bindings())

	return module(ctx, capability)
}

func runList() error {
	names := task.DefaultRegistry().Names()
	if len(names) == 0 {
		printWarning("No task modules registered")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODULE")
	fmt.Fprintln(w, "------")
	for _, name := range names {
		fmt.Fprintln(w, name)
	}

	w.Flush()
	return nil
}

func runValidate() error {
	cfgManager := config.NewManager()

	cfg, err := cfgManager.LoadConfig(getConfigPath())
	if err != nil {
		printError(fmt.Sprintf("Configuration is invalid: %v", err))
		return err
	}

	if err := cfgManager.ValidateConfig(cfg); err != nil {
		printError(fmt.Sprintf("Configuration is invalid: %v", err))
		return err
	}

	printSuccess("Configuration is valid")
	return nil
}

func createRunLogger(cfg *types.RunConfig) logger.Logger {
	logFile := ""
	level := verbosity
	if cfg.Logging != nil {
		logFile = cfg.Logging.File
		if verbosity == "" {
			level = string(cfg.Logging.Level)
		}
	}
	return logger.CreateLogger(logFile, level)
}

func createNotifier(cfg *types.RunConfig, log logger.Logger) *notifier.RunNotifier {
	nc := notifier.Config{}
	if cfg.Notifications != nil {
		nc.Enabled = cfg.Notifications.Enabled != nil && *cfg.Notifications.Enabled
		nc.SuccessSound = cfg.Notifications.SuccessSound
		nc.FailureSound = cfg.Notifications.FailureSound
	}
	return notifier.New(nc, log)
}
