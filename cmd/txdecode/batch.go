package main

import (
	"fmt"
	"os"

	"github.com/danmuck/txdecode/internal/observability"
	"github.com/danmuck/txdecode/internal/protocol"
	"github.com/danmuck/txdecode/internal/protocol/frame"
	"github.com/danmuck/txdecode/internal/protocol/txn"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newBatchCmd(c *cli) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch <dump>",
		Short: "Decode every framed transaction in a dump file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			limits := frame.DefaultLimits()
			if c.cfg.MaxTxnBytes > 0 {
				limits.MaxPayloadBytes = uint32(c.cfg.MaxTxnBytes)
			}
			frames, err := frame.ReadAll(f, limits)
			if err != nil {
				return err
			}

			d, err := c.cfg.NewDecoder(&c.logger, observability.DecodeObserver{})
			if err != nil {
				return err
			}
			items := make([]txn.Item, len(frames))
			for i, fr := range frames {
				items[i] = txn.Item{Buf: fr.Payload}
				if fr.Header.Version != 0 {
					items[i].Format = itemFormat(d.Format(), c.cfg.StrictSubstateSize, fr.Header.Version)
				}
			}
			results, err := txn.DecodeBatch(cmd.Context(), d, items, workers)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "Bytes", "Instructions", "Result"})
			failed := 0
			for _, res := range results {
				status, count := observability.ResultOK, 0
				if res.Err != nil {
					failed++
					status = res.Err.Error()
				} else {
					count = res.Tx.Len()
				}
				t.AppendRow(table.Row{res.Index, len(items[res.Index].Buf), count, status})
			}
			t.Render()

			c.logger.Info().Int("frames", len(results)).Int("failed", failed).Msg("batch decoded")
			if failed > 0 {
				return fmt.Errorf("%d of %d transactions rejected", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "decode concurrency (0 = GOMAXPROCS)")
	return cmd
}

// itemFormat switches to the generation a frame names. Key checks carry over;
// envelope strictness carries over only when it was set explicitly, so each
// generation otherwise keeps its own default.
func itemFormat(base protocol.Format, strict *bool, v protocol.Version) protocol.Format {
	f, err := protocol.FormatFor(v)
	if err != nil {
		return base
	}
	f.ValidateKeys = base.ValidateKeys
	if strict != nil && f.SubstateEnvelope {
		f.StrictEnvelope = *strict
	}
	return f
}
