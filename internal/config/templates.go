package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	KindDecoder = "decoder"
	KindFixture = "fixture"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindDecoder:
		return decoderTemplate, nil
	case KindFixture:
		return fixtureTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const decoderTemplate = `# format generation: v1, v2, v3 or v4
format = "v4"

# reject substates that leave declared envelope bytes unread
# (unset keeps the generation's default: v3 permissive, v4 strict)
# strict_substate_size = true

# require every public key to be a valid secp256k1 point
validate_keys = false

# reject buffers larger than this before decoding (0 = no limit)
max_txn_bytes = 0

# text, table or json
output = "text"

[log]
level = "info"
timestamp = true
no_color = false

[server]
addr = ":9310"
cors_origins = ["http://localhost:3000"]
# bearer token required by POST /decode; empty leaves the service open
token = ""
`

const fixtureTemplate = `[[case]]
name = "single end"
format = "v4"
hex = "00"
instructions = ["END"]

[[case]]
name = "header"
format = "v4"
hex = "0d 01 00"
instructions = ["HEADER(1,0)"]

[[case]]
name = "message"
format = "v4"
hex = "0c 0003 616263"
instructions = ['MSG("abc")']

[[case]]
name = "unknown opcode"
format = "v4"
hex = "ff"
error = "unknown_opcode"
`
