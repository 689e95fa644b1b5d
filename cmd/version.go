package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version, the Go version used to build this tool and the theming module it migrates.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("theming module\t", m.DefaultModule)

			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				cmd.Println("version: unknown")
				return
			}

			cmd.Println("tool version\t", info.Main.Version)
			cmd.Println("go version\t", info.GoVersion)
		},
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
