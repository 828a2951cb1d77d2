package main

import (
	"fmt"

	"github.com/danmuck/txdecode/internal/config"
	"github.com/spf13/cobra"
)

func newTemplateCmd(c *cli) *cobra.Command {
	var (
		kind  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "template <path>",
		Short: "Write a commented decoder config or fixture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplate(args[0], kind, force); err != nil {
				return err
			}
			c.logger.Info().Str("path", args[0]).Str("kind", kind).Msg("template written")
			fmt.Fprintln(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", config.KindDecoder, "template kind: decoder or fixture")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
