package main

import (
	"fmt"

	"github.com/danmuck/txdecode/internal/config"
	"github.com/danmuck/txdecode/internal/logging"
	"github.com/danmuck/txdecode/internal/observability"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cli carries the persistent flags and the state resolved from them before
// any subcommand runs.
type cli struct {
	configPath   string
	format       string
	output       string
	strict       bool
	validateKeys bool
	maxBytes     int
	metricsOut   string
	logLevel     string

	cfg    config.DecoderConfig
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "txdecode",
		Short:         "Decode ledger transaction buffers into instruction lists",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.metricsOut == "" {
				return nil
			}
			if err := observability.WriteMetrics(c.metricsOut); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "decoder config file (toml)")
	flags.StringVar(&c.format, "format", "", "format generation: v1, v2, v3 or v4")
	flags.StringVar(&c.output, "output", "", "output form: text, table or json")
	flags.BoolVar(&c.strict, "strict-substate-size", false, "reject substates that leave declared bytes unread")
	flags.BoolVar(&c.validateKeys, "validate-keys", false, "require public keys to be valid secp256k1 points")
	flags.IntVar(&c.maxBytes, "max-txn-bytes", 0, "reject buffers larger than this (0 = no limit)")
	flags.StringVar(&c.metricsOut, "metrics-out", "", "write decode metrics to this file on exit")
	flags.StringVar(&c.logLevel, "log-level", "", "log level override")

	root.AddCommand(
		newDecodeCmd(c),
		newVerifyCmd(c),
		newTemplateCmd(c),
		newServeCmd(c),
		newBatchCmd(c),
	)
	return root
}

// setup loads the config file and lays explicitly set flags over it.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = c.format
	}
	if flags.Changed("output") {
		cfg.Output = c.output
	}
	if flags.Changed("strict-substate-size") {
		strict := c.strict
		cfg.StrictSubstateSize = &strict
	}
	if flags.Changed("validate-keys") {
		cfg.ValidateKeys = c.validateKeys
	}
	if flags.Changed("max-txn-bytes") {
		cfg.MaxTxnBytes = c.maxBytes
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = c.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	c.cfg = cfg

	logCfg := cfg.Logging(logging.ConfigureRuntime())
	c.logger = observability.InitLoggerTo(cmd.ErrOrStderr(), "txdecode", logCfg)
	return nil
}
