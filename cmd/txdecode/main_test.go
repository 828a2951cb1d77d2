package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/txdecode/internal/observability"
	"github.com/danmuck/txdecode/internal/protocol"
	"github.com/danmuck/txdecode/internal/protocol/frame"
	"github.com/danmuck/txdecode/internal/testutil/testlog"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	testlog.Start(t)
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestDecodeHexArgument(t *testing.T) {
	out, _, err := run(t, "", "decode", "0d0100 0c0003616263 00")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "     0  HEADER(1,0)\n     3  MSG(\"abc\")\n     9  END\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestDecodeStdinAndFormat(t *testing.T) {
	out, _, err := run(t, "0c 03 616263\n", "decode", "--format", "v1", "--output", "json")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out, `"format": "v1"`) || !strings.Contains(out, `MSG(\"abc\")`) {
		t.Fatalf("unexpected json output %s", out)
	}
}

func TestDecodeRawFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.bin")
	if err := os.WriteFile(path, []byte{0x08, 0x00, 0x05, 0x00}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, _, err := run(t, "", "decode", "--file", path, "--raw")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out, "LDOWN(5)") || !strings.Contains(out, "END") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestDecodeFailure(t *testing.T) {
	_, _, err := run(t, "", "decode", "00 42")
	if err == nil || !strings.Contains(err.Error(), "unknown opcode") {
		t.Fatalf("expected unknown opcode error, got %v", err)
	}
	if _, _, err := run(t, "", "decode", "--max-txn-bytes", "1", "0000"); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected size guard error, got %v", err)
	}
	if _, _, err := run(t, "", "decode", "--format", "v2", "--strict-substate-size", "00"); err == nil {
		t.Fatalf("expected strictness without envelope to be rejected")
	}
}

func TestDecodeWithExampleConfig(t *testing.T) {
	// ex.config.toml selects v3 with strict envelopes and table output.
	_, _, err := run(t, "", "--config", "ex.config.toml", "decode", "02 000b 03 00 000000000000002a ff")
	if err == nil || !strings.Contains(err.Error(), "size mismatch") {
		t.Fatalf("expected strict size mismatch, got %v", err)
	}
	out, _, err := run(t, "", "--config", "ex.config.toml", "decode", "--strict-substate-size=false", "02 000b 03 00 000000000000002a ff")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out, "UP(EPOCH_DATA(epoch=42))") {
		t.Fatalf("unexpected table output %s", out)
	}
}

func TestVerifyFixtures(t *testing.T) {
	out, _, err := run(t, "", "verify", filepath.Join("..", "..", "internal", "fixture", "testdata", "fixtures.toml"))
	if err != nil {
		t.Fatalf("verify: %v\n%s", err, out)
	}
	if strings.Contains(out, "FAIL") || !strings.Contains(out, "PASS") {
		t.Fatalf("unexpected verify output %s", out)
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	body := "[[case]]\nname = \"wrong\"\nhex = \"00\"\ninstructions = [\"HEADER(1,0)\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, _, err = run(t, "", "verify", path)
	if err == nil || !strings.Contains(out, "FAIL") {
		t.Fatalf("expected failing verify, got err=%v out=%s", err, out)
	}
}

func TestTemplateAndMetrics(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "txdecode.toml")
	if _, _, err := run(t, "", "template", cfgPath); err != nil {
		t.Fatalf("template: %v", err)
	}
	if _, _, err := run(t, "", "template", cfgPath); err == nil {
		t.Fatalf("expected existing template to be protected")
	}

	metricsPath := filepath.Join(dir, "metrics.prom")
	if _, _, err := run(t, "", "--config", cfgPath, "--metrics-out", metricsPath, "decode", "00"); err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(raw), `txdecode_decode_total{format="v4",result="ok"}`) {
		t.Fatalf("expected decode counter in metrics dump:\n%s", raw)
	}
}

func TestBatchDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.bin")
	var buf bytes.Buffer
	frames := []frame.Frame{
		{Payload: []byte{0x00}},
		{Header: frame.Header{Version: protocol.V1}, Payload: []byte{0x0c, 0x03, 'a', 'b', 'c'}},
		{Payload: []byte{0x0d, 0x01, 0x00, 0x00}},
	}
	for _, f := range frames {
		if err := frame.WriteFrame(&buf, f, frame.DefaultLimits()); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	out, _, err := run(t, "", "batch", "--workers", "2", path)
	if err != nil {
		t.Fatalf("batch: %v\n%s", err, out)
	}
	if strings.Count(out, observability.ResultOK) < 3 {
		t.Fatalf("expected three ok rows:\n%s", out)
	}

	buf.Reset()
	_ = frame.WriteFrame(&buf, frame.Frame{Payload: []byte{0x99}}, frame.DefaultLimits())
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	if _, _, err := run(t, "", "batch", path); err == nil || !strings.Contains(err.Error(), "1 of 1") {
		t.Fatalf("expected rejected transaction, got %v", err)
	}
}

func TestItemFormatStrictness(t *testing.T) {
	base := protocol.FormatV4
	base.ValidateKeys = true

	f := itemFormat(base, nil, protocol.V3)
	if f.StrictEnvelope || !f.ValidateKeys {
		t.Fatalf("expected v3 default strictness with key checks, got %+v", f)
	}

	strict := true
	if f := itemFormat(base, &strict, protocol.V3); !f.StrictEnvelope {
		t.Fatalf("expected explicit strictness on v3, got %+v", f)
	}
	lenient := false
	if f := itemFormat(base, &lenient, protocol.V4); f.StrictEnvelope {
		t.Fatalf("expected explicit permissive v4, got %+v", f)
	}
	if f := itemFormat(base, &strict, protocol.V1); f.StrictEnvelope || f.SubstateEnvelope {
		t.Fatalf("expected v1 without envelope, got %+v", f)
	}
	if f := itemFormat(base, nil, protocol.Version(9)); f != base {
		t.Fatalf("expected base format for unknown version, got %+v", f)
	}
}
