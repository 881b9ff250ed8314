package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teranos/ctorgen/config"
)

func newInitCmd(g *globals) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter ctorgen.toml",
		Long: `Write ctorgen.toml with the default settings into the working directory
(or the directory given with -C). An existing file is only replaced with
--force, in which case it is first copied to ctorgen.toml.back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(g.base(), config.FileName)
			if err := config.WriteFile(path, config.Default(), force); err != nil {
				return err
			}
			success(cmd, "Wrote %s", g.display(path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing ctorgen.toml")
	return cmd
}
