package fixture

import (
	"fmt"

	"github.com/danmuck/txdecode/internal/protocol"
	"github.com/danmuck/txdecode/internal/protocol/txn"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
)

// Result is the outcome of running one Case.
type Result struct {
	Name   string
	Passed bool
	Got    []string
	Err    error
	Reason string
}

// Runner decodes cases with a shared logger and observer.
type Runner struct {
	Logger   *zerolog.Logger
	Observer txn.Observer
}

func Run(c Case) Result {
	return Runner{}.Run(c)
}

func (r Runner) Run(c Case) Result {
	res := Result{Name: c.Name}
	format, err := c.ProtocolFormat()
	if err != nil {
		res.Reason = err.Error()
		return res
	}
	buf, err := c.Bytes()
	if err != nil {
		res.Reason = err.Error()
		return res
	}
	d, err := txn.NewDecoder(txn.Options{Format: format, Logger: r.Logger, Observer: r.Observer})
	if err != nil {
		res.Reason = err.Error()
		return res
	}

	tx, err := d.Decode(buf)
	res.Err = err
	if tx != nil {
		for _, ins := range tx.Instructions {
			res.Got = append(res.Got, ins.String())
		}
	}

	switch {
	case c.Error != "":
		got := protocol.KindName(err)
		if got == c.Error {
			res.Passed = true
		} else {
			res.Reason = fmt.Sprintf("expected error %s, got %s", c.Error, got)
		}
	case err != nil:
		res.Reason = fmt.Sprintf("unexpected error: %v", err)
	default:
		if diff := cmp.Diff(c.Instructions, res.Got, cmpopts.EquateEmpty()); diff != "" {
			res.Reason = fmt.Sprintf("instructions mismatch (-want +got):\n%s", diff)
		} else {
			res.Passed = true
		}
	}
	return res
}

// RunAll runs every case in order.
func (r Runner) RunAll(f File) []Result {
	out := make([]Result, 0, len(f.Cases))
	for _, c := range f.Cases {
		out = append(out, r.Run(c))
	}
	return out
}

// Failed counts results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, res := range results {
		if !res.Passed {
			n++
		}
	}
	return n
}
