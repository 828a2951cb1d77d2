// Package txn decodes a whole transaction buffer into its instruction list.
package txn

import (
	"fmt"
	"time"

	"github.com/danmuck/txdecode/internal/protocol"
	"github.com/danmuck/txdecode/internal/protocol/instruction"
	"github.com/rs/zerolog"
)

// Transaction is an immutable parse result. Offsets[i] is the byte offset
// of Instructions[i]'s opcode.
type Transaction struct {
	Format       protocol.Format
	Instructions []instruction.Instruction
	Offsets      []int
	Size         int
}

func (t *Transaction) Len() int { return len(t.Instructions) }

func (t *Transaction) Opcodes() []instruction.Opcode {
	out := make([]instruction.Opcode, len(t.Instructions))
	for i, ins := range t.Instructions {
		out[i] = ins.Opcode()
	}
	return out
}

// Observer receives the outcome of each Decode call. Instructions are
// reported only for transactions that decode completely.
type Observer interface {
	ObserveInstruction(format protocol.Format, op instruction.Opcode)
	ObserveDecode(format protocol.Format, size int, elapsed time.Duration, err error)
}

// Options configures a Decoder. The zero value decodes the default format
// with no size limit, silently.
type Options struct {
	Format   protocol.Format
	MaxBytes int
	Logger   *zerolog.Logger
	Observer Observer
}

// Decoder is safe for concurrent use; every call owns its cursor.
type Decoder struct {
	format   protocol.Format
	maxBytes int
	log      zerolog.Logger
	observer Observer
}

func NewDecoder(opts Options) (*Decoder, error) {
	format := opts.Format
	if format.Version == 0 {
		format = protocol.DefaultFormat()
	}
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("txn: %w", err)
	}
	if opts.MaxBytes < 0 {
		return nil, fmt.Errorf("txn: max bytes must be >= 0, got %d", opts.MaxBytes)
	}
	d := &Decoder{
		format:   format,
		maxBytes: opts.MaxBytes,
		log:      zerolog.Nop(),
		observer: opts.Observer,
	}
	if opts.Logger != nil {
		d.log = *opts.Logger
	}
	return d, nil
}

func (d *Decoder) Format() protocol.Format { return d.format }

// Decode consumes buf completely or fails; no partial transaction is ever
// returned.
func (d *Decoder) Decode(buf []byte) (*Transaction, error) {
	started := time.Now()
	tx, err := d.decode(buf)
	if d.observer != nil {
		if err == nil {
			for _, ins := range tx.Instructions {
				d.observer.ObserveInstruction(d.format, ins.Opcode())
			}
		}
		d.observer.ObserveDecode(d.format, len(buf), time.Since(started), err)
	}
	if err != nil {
		d.log.Warn().
			Err(err).
			Str("format", d.format.Version.String()).
			Str("kind", protocol.KindName(err)).
			Int("size", len(buf)).
			Msg("transaction rejected")
		return nil, err
	}
	d.log.Debug().
		Str("format", d.format.Version.String()).
		Int("size", len(buf)).
		Int("instructions", tx.Len()).
		Msg("transaction decoded")
	return tx, nil
}

func (d *Decoder) decode(buf []byte) (*Transaction, error) {
	if d.maxBytes > 0 && len(buf) > d.maxBytes {
		return nil, protocol.TransactionTooLarge(d.maxBytes, len(buf))
	}
	r := protocol.NewReader(buf, d.format)
	tx := &Transaction{Format: d.format, Size: len(buf)}
	for !r.Done() {
		off := r.Offset()
		ins, err := instruction.Decode(r)
		if err != nil {
			return nil, err
		}
		if d.log.GetLevel() <= zerolog.DebugLevel {
			d.log.Debug().Int("offset", off).Stringer("opcode", ins.Opcode()).Msg("instruction")
		}
		tx.Instructions = append(tx.Instructions, ins)
		tx.Offsets = append(tx.Offsets, off)
	}
	return tx, nil
}

// Decode decodes buf with format and no size limit.
func Decode(buf []byte, format protocol.Format) (*Transaction, error) {
	d, err := NewDecoder(Options{Format: format})
	if err != nil {
		return nil, err
	}
	return d.Decode(buf)
}
