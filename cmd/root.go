// Package cmd provides the root command and CLI setup for mdcmigrate.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mdcmigrate.dev/pkg/mdcmigrate/internal/adapter"
	"mdcmigrate.dev/pkg/mdcmigrate/internal/controller"
	"mdcmigrate.dev/pkg/mdcmigrate/internal/domain"
	"mdcmigrate.dev/pkg/mdcmigrate/internal/domain/rules"
	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore

// newWorkflow builds the workflow for a command once its UI is known.
var newWorkflow = func(ui controller.UI) domain.Workflow {
	return domain.NewWorkflow(fsAdapter, reportStore, ui)
}

// rulesPathFlag points at a YAML rule table merged over the built-in one.
var rulesPathFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var logPathFlag string
var verboseFlag bool

func init() {
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./src/...      recursively scan src directory
  - ./src ./lib    scan multiple directories (not recursive)
  - theme.scss     a single stylesheet`

const rootLongDescription = `mdcmigrate rewrites Angular Material stylesheets from the legacy
component implementations to their MDC-based replacements. It renames
theme mixins and CSS classes, and flags rules that target internal
elements which may no longer exist.

` + pathPatternsHelp

const migrateLongDescription = `Migrate stylesheets for the selected components (default path: current directory).

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdcmigrate",
		Short: "Angular Material legacy to MDC style migration",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newComponentsCmd())
	rootCmd.AddCommand(newRulesCmd())
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringVar(&rulesPathFlag, rulesFlagName, viper.GetString(rulesConfigKey), "YAML rule table merged over the built-in rules")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(rulesFlagName), rulesConfigKey)

	cmd.PersistentFlags().StringVar(&logPathFlag, logFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// loadRules returns the built-in rule table, merged with the table at path
// when one is given.
func loadRules(path string) (m.RuleTable, error) {
	table, err := rules.Default()
	if err != nil {
		return m.RuleTable{}, fmt.Errorf("load built-in rules: %w", err)
	}

	if path == "" {
		return table, nil
	}

	data, err := fsAdapter.ReadFile(m.Path(path))
	if err != nil {
		return m.RuleTable{}, fmt.Errorf("read rules %s: %w", path, err)
	}

	override, err := rules.Parse(data)
	if err != nil {
		return m.RuleTable{}, fmt.Errorf("rules %s: %w", path, err)
	}

	table = rules.Merge(table, override)
	if err := rules.Validate(table); err != nil {
		return m.RuleTable{}, fmt.Errorf("rules %s: %w", path, err)
	}

	for _, name := range table.Names() {
		if overlaps := rules.Overlaps(table.Components[name]); len(overlaps) > 0 {
			slog.Warn("Classes are both renamed and ambiguous; rename wins", "component", name, "classes", overlaps)
		}
	}

	slog.Debug("Loaded rule table", "path", path, "components", len(table.Components))

	return table, nil
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
