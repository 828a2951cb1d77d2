package main

import (
	"github.com/danmuck/txdecode/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr, token string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /decode, /formats, /health and /metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("token") {
				cfg.Server.Token = token
			}
			s, err := server.New(cfg, c.logger)
			if err != nil {
				return err
			}
			return s.Serve()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&token, "token", "", "bearer token required by POST /decode (default from config)")
	return cmd
}
