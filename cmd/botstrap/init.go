package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/botstrap/internal/platform"
	"github.com/aretw0/botstrap/pkg/adapters/fs"
	"github.com/aretw0/botstrap/pkg/core"
)

var (
	initPath string
	initSrc  string
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Scaffold a new bot and register it in schema.json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := platform.NewStore(cfg.WorkDir, resolverOptions(cmd)...)
		if err != nil {
			return err
		}

		res, err := fs.Scaffold(cmd.Context(), store, core.RegistryEntry{
			Name: args[0],
			Path: initPath,
			Src:  initSrc,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Registered %s (path: %s, src: %s)\n", res.Entry.Name, res.Entry.Path, res.Entry.Src)
		for _, f := range res.Created {
			fmt.Fprintf(out, "  created %s\n", f)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initPath, "path", "", "Bot directory relative to the work directory (default: bots/<name>)")
	initCmd.Flags().StringVar(&initSrc, "src", "", "Bot source directory (default: <path>/src)")
	rootCmd.AddCommand(initCmd)
}
