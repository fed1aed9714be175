package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "worker",
		Short:        "LogoGen maintenance and rendering tasks",
		SilenceUsage: true,
	}
	cmd.AddCommand(renderCmd(), previewCmd(), expireCmd(), fulfilCmd())
	return cmd
}
