package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mdcmigrate.dev/pkg/mdcmigrate/internal/domain/rules"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective rule table as YAML",
		Long: `Print the built-in rule table, merged with --rules when given. The output
is a valid rules file and can be used as a starting point for overrides.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := loadRules(viper.GetString(rulesConfigKey))
			if err != nil {
				return err
			}

			data, err := rules.Encode(table)
			if err != nil {
				return fmt.Errorf("encode rules: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}
}
