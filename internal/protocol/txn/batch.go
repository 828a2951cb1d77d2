package txn

import (
	"context"
	"fmt"
	"runtime"

	"github.com/danmuck/txdecode/internal/protocol"
	"golang.org/x/sync/errgroup"
)

// Item is one buffer of a batch. A zero Format uses the decoder's format.
type Item struct {
	Format protocol.Format
	Buf    []byte
}

// Result pairs a batch item with its outcome. Exactly one of Tx and Err is set.
type Result struct {
	Index int
	Tx    *Transaction
	Err   error
}

// DecodeBatch decodes items on up to workers goroutines and returns results
// in item order. A failed item does not stop the others; only ctx does.
func DecodeBatch(ctx context.Context, d *Decoder, items []Item, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dec, err := d.forItem(item)
			if err != nil {
				results[i] = Result{Index: i, Err: err}
				return nil
			}
			tx, err := dec.Decode(item.Buf)
			results[i] = Result{Index: i, Tx: tx, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *Decoder) forItem(item Item) (*Decoder, error) {
	if item.Format.Version == 0 || item.Format == d.format {
		return d, nil
	}
	if err := item.Format.Validate(); err != nil {
		return nil, fmt.Errorf("txn: %w", err)
	}
	cp := *d
	cp.format = item.Format
	return &cp, nil
}
