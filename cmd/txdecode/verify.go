package main

import (
	"fmt"

	"github.com/danmuck/txdecode/internal/fixture"
	"github.com/danmuck/txdecode/internal/observability"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newVerifyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <fixtures.toml>",
		Short: "Decode every fixture case and compare with its expectation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fixture.Load(args[0])
			if err != nil {
				return err
			}
			runner := fixture.Runner{Logger: &c.logger, Observer: observability.DecodeObserver{}}
			results := runner.RunAll(f)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Case", "Result", "Detail"})
			for _, res := range results {
				status, detail := "PASS", ""
				if !res.Passed {
					status, detail = "FAIL", res.Reason
				}
				t.AppendRow(table.Row{res.Name, status, detail})
			}
			failed := fixture.Failed(results)
			t.AppendFooter(table.Row{"", fmt.Sprintf("%d/%d", len(results)-failed, len(results)), ""})
			t.Render()

			c.logger.Info().Str("path", f.Path).Int("cases", len(results)).Int("failed", failed).Msg("fixtures verified")
			if failed > 0 {
				return fmt.Errorf("%d of %d fixture cases failed", failed, len(results))
			}
			return nil
		},
	}
}
