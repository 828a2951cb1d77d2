package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/txdecode/internal/fixture"
	"github.com/danmuck/txdecode/internal/observability"
	"github.com/danmuck/txdecode/internal/render"
	"github.com/spf13/cobra"
)

func newDecodeCmd(c *cli) *cobra.Command {
	var (
		file string
		raw  bool
	)
	cmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode one transaction given as hex, a file, or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := readInput(cmd.InOrStdin(), args, file, raw)
			if err != nil {
				return err
			}
			d, err := c.cfg.NewDecoder(&c.logger, observability.DecodeObserver{})
			if err != nil {
				return err
			}
			tx, err := d.Decode(buf)
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			return render.Write(cmd.OutOrStdout(), c.cfg.Output, tx)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "read the transaction from a file (- for stdin)")
	cmd.Flags().BoolVar(&raw, "raw", false, "file or stdin holds binary bytes instead of hex")
	return cmd
}

func readInput(stdin io.Reader, args []string, file string, raw bool) ([]byte, error) {
	if len(args) == 1 {
		if file != "" {
			return nil, fmt.Errorf("give either a hex argument or --file, not both")
		}
		return fixture.DecodeHex(args[0])
	}

	var data []byte
	var err error
	switch file {
	case "", "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if raw {
		return data, nil
	}
	return fixture.DecodeHex(strings.TrimSpace(string(data)))
}
