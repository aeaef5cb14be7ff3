package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/botstrap"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of botstrap",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "botstrap version %s\n", strings.TrimSpace(botstrap.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
