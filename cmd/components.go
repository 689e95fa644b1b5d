package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mdcmigrate.dev/pkg/mdcmigrate/internal/controller"
)

var componentsInteractiveFlag bool

func newComponentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "components",
		Short: "List the components that can be migrated",
		Long: `List every component of the effective rule table with the number of
mixin renames, class renames and ambiguous classes it defines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := loadRules(viper.GetString(rulesConfigKey))
			if err != nil {
				return err
			}

			return newWorkflow(controller.NewUI(cmd, componentsInteractiveFlag)).Components(cmd.Context(), table)
		},
	}

	cmd.Flags().BoolVarP(&componentsInteractiveFlag, interactiveFlagName, "i", false, "browse the table in an interactive terminal UI")

	return cmd
}
