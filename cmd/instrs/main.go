// instrs encodes, decodes and runs programs of the sample instruction set.
//
// Programs are written in the debug text form ("Add 1,2,3, Halt ") and
// travel as hex of the wire encoding:
//
//	instrs encode "Add 1,2,3, Halt "     # 0201020308
//	instrs decode 0201020308             # one instruction per line
//	instrs run 0201020308                # execute on the sample machine
//	instrs schema                        # WIT declaration of the set
//	instrs -i                            # interactive inspector
//
// With no program argument, encode, decode and run read standard input.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spencerwhite/instrs/codec"
	"github.com/spencerwhite/instrs/errors"
	"github.com/spencerwhite/instrs/internal/config"
	"github.com/spencerwhite/instrs/isa"
	"github.com/spencerwhite/instrs/witschema"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type env struct {
	cfg   *config.Config
	log   *zap.Logger
	u     *codec.Union[isa.Instruction]
	stdin io.Reader
	out   io.Writer
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("instrs", pflag.ContinueOnError)
	size := flagSet.String("size", "", "size witness for length prefixes: u8, u16, u32, u64, u128 (default u32)")
	format := flagSet.StringP("format", "f", "", "decode output: text, hex or cbor (default text)")
	configPath := flagSet.String("config", "", "YAML config file")
	verbose := flagSet.BoolP("verbose", "v", false, "log at debug level")
	interactive := flagSet.BoolP("interactive", "i", false, "start the interactive inspector")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet, stdout)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet, stdout)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("size") {
		cfg.Size = *size
	}
	if flagSet.Changed("format") {
		cfg.Format = *format
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts := append(cfg.CompilerOptions(), codec.WithLogger(log))
	u, err := isa.Union(cfg.WireSize(), opts...)
	if err != nil {
		return err
	}
	e := &env{cfg: cfg, log: log, u: u, stdin: stdin, out: stdout}

	if *interactive {
		return runInteractive(e)
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printHelp(flagSet, stdout)
		return errors.InvalidInput(errors.PhaseConfig, "missing command")
	}

	switch rest[0] {
	case "encode":
		return e.encode(rest[1:])
	case "decode":
		return e.decode(rest[1:])
	case "run":
		return e.run(rest[1:])
	case "schema":
		return e.schema()
	default:
		return errors.InvalidInput(errors.PhaseConfig, "unknown command "+rest[0])
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.Level())
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// input joins the arguments, or reads standard input when there are none.
func (e *env) input(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, ""), nil
	}
	data, err := io.ReadAll(e.stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (e *env) program(args []string) ([]isa.Instruction, error) {
	s, err := e.input(args)
	if err != nil {
		return nil, err
	}
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	return isa.DecodeProgram(e.u, b)
}

func decodeHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindExpected, err, "hex program")
	}
	return b, nil
}

func (e *env) encode(args []string) error {
	s, err := e.input(args)
	if err != nil {
		return err
	}
	prog, err := e.u.ParseAll(s)
	if err != nil {
		return err
	}
	b, err := isa.EncodeProgram(e.u, prog)
	if err != nil {
		return err
	}
	e.log.Debug("encoded program", zap.Int("instructions", len(prog)), zap.Int("bytes", len(b)))
	_, err = fmt.Fprintln(e.out, hex.EncodeToString(b))
	return err
}

// record is the CBOR dump of one decoded instruction.
type record struct {
	Tag  int    `cbor:"tag"`
	Op   string `cbor:"op"`
	Text string `cbor:"text"`
	Raw  []byte `cbor:"raw"`
}

func (e *env) decode(args []string) error {
	prog, err := e.program(args)
	if err != nil {
		return err
	}

	switch e.cfg.Format {
	case config.FormatHex:
		for _, in := range prog {
			b, err := e.u.Marshal(in)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, hex.EncodeToString(b))
		}
	case config.FormatCBOR:
		return e.dumpCBOR(prog)
	default:
		for _, in := range prog {
			fmt.Fprintln(e.out, e.u.Format(in))
		}
	}
	return nil
}

func (e *env) dumpCBOR(prog []isa.Instruction) error {
	records := make([]record, len(prog))
	names := e.u.Variants()
	for i, in := range prog {
		tag, _ := e.u.Tag(in)
		raw, err := e.u.Marshal(in)
		if err != nil {
			return err
		}
		records[i] = record{Tag: tag, Op: names[tag], Text: e.u.Format(in), Raw: raw}
	}

	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return err
	}
	data, err := em.Marshal(records)
	if err != nil {
		return err
	}
	if isTerminal(e.out) {
		_, err = fmt.Fprintln(e.out, hex.EncodeToString(data))
		return err
	}
	_, err = e.out.Write(data)
	return err
}

// isTerminal reports whether w is an interactive terminal. Binary output is
// hex-encoded there.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (e *env) run(args []string) error {
	prog, err := e.program(args)
	if err != nil {
		return err
	}

	m := isa.NewMachine(e.u, isa.WithStepLimit(e.cfg.StepLimit), isa.WithMachineLogger(e.log))
	if err := m.Run(context.Background(), prog); err != nil {
		return err
	}
	printMachine(e.out, m)
	return nil
}

func printMachine(w io.Writer, m *isa.Machine) {
	for _, line := range m.Output {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "steps: %d halted: %v\n", m.Steps(), m.Halted())
	for i, r := range m.Regs {
		if r != 0 {
			fmt.Fprintf(w, "r%d = %d\n", i, r)
		}
	}
	if len(m.Stack) > 0 {
		fmt.Fprintf(w, "stack: %v\n", m.Stack)
	}
}

func (e *env) schema() error {
	td, err := witschema.Describe(e.u, witschema.AllowRecursion())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(e.out, witschema.Render(td))
	return err
}

func printHelp(flagSet *pflag.FlagSet, w io.Writer) {
	fmt.Fprint(w, `instrs encodes, decodes and runs instruction programs.

Usage:
  instrs [flags] encode <text>...
  instrs [flags] decode <hex>
  instrs [flags] run <hex>
  instrs [flags] schema
  instrs -i

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
