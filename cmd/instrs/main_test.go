package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/spencerwhite/instrs/errors"
)

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestRun_Commands(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"encode", "", []string{"encode", "Add 1,2,3, ", "Halt "}, "0201020308\n"},
		{"encode stdin", "Add 1,2,3, Halt \n", []string{"encode"}, "0201020308\n"},
		{"encode size u8", "", []string{"--size", "u8", "encode", "PushString 2,hi, "}, "04026869\n"},
		{"decode text", "", []string{"decode", "0201020308"}, "Add 1,2,3, \nHalt \n"},
		{"decode spaced hex", "", []string{"decode", "02 01 02 03", "08"}, "Add 1,2,3, \nHalt \n"},
		{"decode hex", "", []string{"-f", "hex", "decode", "0201020308"}, "02010203\n08\n"},
		{"decode stdin", "0201020308\n", []string{"decode"}, "Add 1,2,3, \nHalt \n"},
		{"run", "", []string{"run", "0201020308"}, "steps: 2 halted: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCmd(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_Machine(t *testing.T) {
	encoded, err := runCmd(t, "", "encode", "PushString 2,hi, PushMany 1,7, Halt ")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := runCmd(t, "", "run", strings.TrimSpace(encoded))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "hi\nsteps: 3 halted: true\nstack: [7]\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_DecodeCBOR(t *testing.T) {
	got, err := runCmd(t, "", "--format", "cbor", "decode", "0201020308")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var records []record
	if err := cbor.Unmarshal([]byte(got), &records); err != nil {
		t.Fatalf("cbor.Unmarshal: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Op != "Add" || records[0].Tag != 2 || records[0].Text != "Add 1,2,3, " {
		t.Errorf("record 0 = %+v", records[0])
	}
	if !bytes.Equal(records[1].Raw, []byte{8}) {
		t.Errorf("record 1 raw = %v, want [8]", records[1].Raw)
	}
}

func TestRun_Schema(t *testing.T) {
	got, err := runCmd(t, "", "schema")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{
		"variant instruction {",
		"  jmp(u64),",
		"  add(instruction-add),",
		"  push-string(string),",
		"  foo(instruction-foo),",
		"  regs: tuple<u8, u8, u8>,",
		"  ch: option<char>,",
		"  body: instruction,",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("schema missing %q:\n%s", want, got)
		}
	}
}

func TestRun_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instrs.yaml")
	if err := os.WriteFile(path, []byte("format: hex\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := runCmd(t, "", "--config", path, "decode", "0201020308")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != "02010203\n08\n" {
		t.Errorf("output = %q", got)
	}

	// Flags win over the file.
	got, err = runCmd(t, "", "--config", path, "-f", "text", "decode", "08")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != "Halt \n" {
		t.Errorf("output = %q", got)
	}
}

func TestRun_Errors(t *testing.T) {
	deep := strings.Repeat("07", 1<<16)

	tests := []struct {
		name string
		args []string
		kind errors.Kind
	}{
		{"missing command", nil, errors.KindInvalidInput},
		{"unknown command", []string{"frobnicate"}, errors.KindInvalidInput},
		{"bad size", []string{"--size", "u3", "schema"}, errors.KindInvalidInput},
		{"bad format", []string{"-f", "xml", "schema"}, errors.KindInvalidInput},
		{"bad hex", []string{"decode", "zz"}, errors.KindExpected},
		{"unknown tag", []string{"decode", "09"}, errors.KindExpectedRange},
		{"bad text", []string{"encode", "Hop "}, errors.KindExpected},
		{"step limit", []string{"run", "010000000000000000"}, errors.KindTooLarge},
		{"deep nesting", []string{"decode", deep}, errors.KindTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, "", tt.args...)
			if !errors.IsKind(err, tt.kind) {
				t.Errorf("got %v, want %s", err, tt.kind)
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	got, err := runCmd(t, "", "--help")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(got, "Usage:") || !strings.Contains(got, "--size") {
		t.Errorf("help output = %q", got)
	}
}
