// Package fixture loads hex-encoded sample transactions with their expected
// decode results and checks them against the decoder.
package fixture

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/txdecode/internal/protocol"
)

var ErrInvalidFixture = errors.New("fixture: invalid case")

// Case is one [[case]] table. Exactly one of Instructions or Error states
// the expectation; an empty Instructions list with no Error expects an
// empty transaction.
type Case struct {
	Name         string   `toml:"name"`
	Format       string   `toml:"format"`
	Hex          string   `toml:"hex"`
	Strict       *bool    `toml:"strict_substate_size"`
	Instructions []string `toml:"instructions"`
	Error        string   `toml:"error"`
}

type File struct {
	Path  string `toml:"-"`
	Cases []Case `toml:"case"`
}

func Load(path string) (File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, fmt.Errorf("load fixtures: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return File{}, fmt.Errorf("load fixtures (%s): unknown key %q", path, undecoded[0].String())
	}
	f.Path = path
	seen := make(map[string]struct{}, len(f.Cases))
	for i := range f.Cases {
		c := &f.Cases[i]
		c.Name = strings.TrimSpace(c.Name)
		if c.Format == "" {
			c.Format = protocol.LatestVersion.String()
		}
		if err := c.validate(); err != nil {
			return File{}, fmt.Errorf("case[%d]: %w", i, err)
		}
		if _, dup := seen[c.Name]; dup {
			return File{}, fmt.Errorf("case[%d]: %w: duplicate name %q", i, ErrInvalidFixture, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return f, nil
}

func (c Case) validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFixture)
	}
	if c.Error != "" && len(c.Instructions) > 0 {
		return fmt.Errorf("%w: %s sets both instructions and error", ErrInvalidFixture, c.Name)
	}
	if _, err := c.ProtocolFormat(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFixture, c.Name, err)
	}
	if _, err := c.Bytes(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFixture, c.Name, err)
	}
	return nil
}

// ProtocolFormat resolves the case's generation and strictness override.
func (c Case) ProtocolFormat() (protocol.Format, error) {
	v, err := protocol.ParseVersion(c.Format)
	if err != nil {
		return protocol.Format{}, err
	}
	f, err := protocol.FormatFor(v)
	if err != nil {
		return protocol.Format{}, err
	}
	if c.Strict != nil {
		f.StrictEnvelope = *c.Strict
	}
	return f, f.Validate()
}

// Bytes decodes Hex. Whitespace, underscores and 0x prefixes are ignored.
func (c Case) Bytes() ([]byte, error) {
	return DecodeHex(c.Hex)
}

func DecodeHex(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, "0x", "")
	s = strings.ReplaceAll(s, "0X", "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' {
			return -1
		}
		return r
	}, s)
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return out, nil
}
