package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mdcmigrate.dev/pkg/mdcmigrate/internal/controller"
	"mdcmigrate.dev/pkg/mdcmigrate/internal/domain"
	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

// allComponents selects every component of the rule table.
const allComponents = "all"

var (
	componentsFlag  []string
	dryRunFlag      bool
	diffFlag        bool
	parallelFlag    int
	interactiveFlag bool
	reportFlag      string
	includeFlag     []string
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [paths...]",
		Short: "Migrate stylesheets from legacy components to MDC",
		Long:  migrateLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadRules(viper.GetString(rulesConfigKey))
			if err != nil {
				return err
			}

			components := selectComponents(viper.GetStringSlice(componentsConfigKey), table)
			if len(components) == 0 {
				return fmt.Errorf("no components selected, use --%s (available: %s, %s)",
					componentFlagName, allComponents, strings.Join(table.Names(), ", "))
			}

			parallel := viper.GetInt(parallelConfigKey)
			if parallel < 0 {
				return fmt.Errorf("--%s must not be negative", parallelFlagName)
			}

			_, err = newWorkflow(controller.NewUI(cmd, interactiveFlag)).Migrate(cmd.Context(), domain.MigrateArgs{
				Paths:      parsePaths(args),
				Components: components,
				Rules:      table,
				Include:    viper.GetStringSlice(includeConfigKey),
				Exclude:    viper.GetStringSlice(excludeConfigKey),
				Threads:    uint(parallel),
				DryRun:     viper.GetBool(dryRunConfigKey),
				ShowDiff:   viper.GetBool(diffConfigKey),
				Report:     m.Path(viper.GetString(reportConfigKey)),
			})

			return err
		},
	}

	configureMigrateFlags(cmd)

	return cmd
}

func configureMigrateFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&componentsFlag, componentFlagName, "c", viper.GetStringSlice(componentsConfigKey), "component to migrate, or \"all\" (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(componentFlagName), componentsConfigKey)

	cmd.Flags().BoolVarP(&dryRunFlag, dryRunFlagName, "n", viper.GetBool(dryRunConfigKey), "report changes without writing files")
	bindFlagToConfig(cmd.Flags().Lookup(dryRunFlagName), dryRunConfigKey)

	cmd.Flags().BoolVarP(&diffFlag, diffFlagName, "d", viper.GetBool(diffConfigKey), "print a unified diff for every changed file")
	bindFlagToConfig(cmd.Flags().Lookup(diffFlagName), diffConfigKey)

	cmd.Flags().IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel workers (0 uses one per CPU)")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().StringVar(&reportFlag, reportFlagName, viper.GetString(reportConfigKey), "write a YAML report of the run to this file")
	bindFlagToConfig(cmd.Flags().Lookup(reportFlagName), reportConfigKey)

	cmd.Flags().StringArrayVar(&includeFlag, includeFlagName, viper.GetStringSlice(includeConfigKey), "glob of stylesheets to migrate inside directories (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(includeFlagName), includeConfigKey)

	cmd.Flags().BoolVarP(&interactiveFlag, interactiveFlagName, "i", false, "browse results in an interactive terminal UI")
}

// selectComponents expands "all" and drops duplicates while keeping the
// requested order.
func selectComponents(requested []string, table m.RuleTable) []string {
	var selected []string

	for _, name := range requested {
		names := []string{strings.TrimSpace(name)}
		if names[0] == allComponents {
			names = table.Names()
		}

		for _, candidate := range names {
			if candidate != "" && !slices.Contains(selected, candidate) {
				selected = append(selected, candidate)
			}
		}
	}

	return selected
}
