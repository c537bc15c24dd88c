package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chatapp",
		Short:         "ChatApp: shared-password chat gateway to Azure OpenAI",
		Long:          "chatapp serves a browser chat backend with a QA defect-report mode and a general chat mode, per-mode conversation memory, and a capped shared-password session registry.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newSessionsCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
