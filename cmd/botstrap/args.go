package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/aretw0/botstrap"
)

var argsCmd = &cobra.Command{
	Use:   "args [tokens...]",
	Short: "Show how command-line tokens are parsed into flags",
	Example: `  botstrap args -- --mode=live -vq --dry-run
  {"dry-run": true, "mode": "live", "q": true, "v": true}`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && args[0] == "--" {
			args = args[1:]
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(botstrap.ParseArgs(args))
	},
}

func init() {
	rootCmd.AddCommand(argsCmd)
}
