package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/botstrap/pkg/core"
)

var resolveYAML bool

var resolveCmd = &cobra.Command{
	Use:   "resolve [name]",
	Short: "Resolve a bot and print its descriptor",
	Long: `Resolve looks the bot up in the registry, loads its bot, cfgs and meta
artifacts and prints the resulting descriptor. On failure a single
"[ERROR] ..." line is printed and the command exits with status 1.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newResolver(cmd)
		if err != nil {
			return err
		}

		data := r.Resolve(cmd.Context(), args[0])
		if data == nil {
			return fmt.Errorf("bot %q could not be resolved", args[0])
		}
		return printBotData(cmd.OutOrStdout(), data, resolveYAML)
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveYAML, "yaml", false, "Print the descriptor as YAML instead of JSON")
	rootCmd.AddCommand(resolveCmd)
}

func printBotData(w io.Writer, data *core.BotData, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
