package main

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/botstrap"
	"github.com/aretw0/botstrap/pkg/core"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List stored API tokens (masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		tokens, err := botstrap.Tokens(cmd.Context(), cfg.WorkDir, resolverOptions(cmd)...)
		switch {
		case errors.Is(err, core.ErrTokensMissing):
			slog.Warn("no token file", "file", cfg.TokensFile)
		case err != nil:
			return err
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tTOKEN")
		names := make([]string, 0, len(tokens))
		for name := range tokens {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(tw, "%s\t%s\n", name, mask(tokens[name]))
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		state := "unset"
		if cfg.HasToken() {
			state = "set"
		}
		fmt.Fprintf(out, "\nAPI_TOKEN: %s\n", state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

// mask keeps the last four characters of long tokens.
func mask(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
