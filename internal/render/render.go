// Package render prints decoded transactions for people and scripts.
package render

import (
	"fmt"
	"io"

	"github.com/danmuck/txdecode/internal/protocol/txn"
	"github.com/jedib0t/go-pretty/v6/table"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Entry is the flat view of one instruction shared by every output form.
type Entry struct {
	Index  int    `json:"index"`
	Offset int    `json:"offset"`
	Opcode string `json:"opcode"`
	Detail string `json:"detail"`
}

// Document is the JSON shape of a decoded transaction.
type Document struct {
	Format       string  `json:"format"`
	Size         int     `json:"size"`
	Instructions []Entry `json:"instructions"`
}

func Entries(tx *txn.Transaction) []Entry {
	out := make([]Entry, 0, tx.Len())
	for i, ins := range tx.Instructions {
		out = append(out, Entry{
			Index:  i,
			Offset: tx.Offsets[i],
			Opcode: ins.Opcode().String(),
			Detail: ins.String(),
		})
	}
	return out
}

func NewDocument(tx *txn.Transaction) Document {
	return Document{
		Format:       tx.Format.Version.String(),
		Size:         tx.Size,
		Instructions: Entries(tx),
	}
}

// Text writes one "offset  INSTRUCTION" line per instruction.
func Text(w io.Writer, tx *txn.Transaction) error {
	for i, ins := range tx.Instructions {
		if _, err := fmt.Fprintf(w, "%6d  %s\n", tx.Offsets[i], ins); err != nil {
			return err
		}
	}
	return nil
}

func Table(w io.Writer, tx *txn.Transaction) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("%s transaction, %d bytes", tx.Format.Version, tx.Size))
	t.AppendHeader(table.Row{"#", "Offset", "Opcode", "Detail"})
	for _, e := range Entries(tx) {
		t.AppendRow(table.Row{e.Index, e.Offset, e.Opcode, e.Detail})
	}
	t.AppendFooter(table.Row{"", "", "Total", tx.Len()})
	t.Render()
	return nil
}

func JSON(w io.Writer, tx *txn.Transaction) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(tx))
}

// Write dispatches on an output name: text, table or json.
func Write(w io.Writer, output string, tx *txn.Transaction) error {
	switch output {
	case "", "text":
		return Text(w, tx)
	case "table":
		return Table(w, tx)
	case "json":
		return JSON(w, tx)
	default:
		return fmt.Errorf("render: unknown output %q", output)
	}
}
