package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/botstrap"
	"github.com/aretw0/botstrap/pkg/core"
)

var (
	listMatch string
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered bots",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listMatch != "" && !doublestar.ValidatePattern(listMatch) {
			return fmt.Errorf("invalid match pattern: %s", listMatch)
		}

		reg, err := botstrap.BotsSchema(cmd.Context(), cfg.WorkDir, resolverOptions(cmd)...)
		if err != nil {
			return err
		}

		entries := make(core.Registry, 0, len(reg))
		for _, e := range reg {
			if listMatch != "" {
				if ok, _ := doublestar.Match(listMatch, e.Name); !ok {
					continue
				}
			}
			entries = append(entries, e)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tPATH\tSRC")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Path, e.Src)
		}
		return tw.Flush()
	},
}

func init() {
	listCmd.Flags().StringVarP(&listMatch, "match", "m", "", "Only list bots whose name matches a glob (e.g. \"grid-*\")")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print entries as JSON")
	rootCmd.AddCommand(listCmd)
}
