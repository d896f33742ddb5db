package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.bytecodealliance.org/wit"
	"golang.org/x/term"

	"github.com/spencerwhite/instrs/errors"
	"github.com/spencerwhite/instrs/isa"
	"github.com/spencerwhite/instrs/witschema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	caseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inputMode int

const (
	modeText inputMode = iota
	modeHex
)

func (m inputMode) String() string {
	if m == modeHex {
		return "hex"
	}
	return "text"
}

type interactiveModel struct {
	env    *env
	err    error
	prog   []isa.Instruction
	cases  []caseInfo
	input  textinput.Model
	hex    string
	output []string
	mode   inputMode
}

type caseInfo struct {
	name    string
	typeStr string
	tag     int
}

type runResultMsg struct {
	err    error
	output []string
}

func newInteractiveModel(e *env) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "Add 1,2,3, Halt "
	ti.Prompt = "text> "
	ti.Width = 60
	ti.Focus()

	m := &interactiveModel{env: e, input: ti}
	m.cases = describeCases(e)
	return m
}

// describeCases lists the variants with their WIT payload types.
func describeCases(e *env) []caseInfo {
	names := e.u.Variants()
	cases := make([]caseInfo, len(names))
	for i, name := range names {
		cases[i] = caseInfo{name: name, tag: i}
	}
	td, err := witschema.Describe(e.u, witschema.AllowRecursion())
	if err != nil {
		return cases
	}
	for i, c := range td.Kind.(*wit.Variant).Cases {
		if c.Type != nil {
			cases[i].typeStr = witschema.TypeString(c.Type)
		}
	}
	return cases
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			m.toggleMode()
			return m, nil

		case "enter":
			if m.err == nil && len(m.prog) > 0 {
				return m, m.runProgram
			}
			return m, nil
		}

	case runResultMsg:
		m.output = msg.output
		if msg.err != nil {
			m.output = append(m.output, errorStyle.Render(fmt.Sprintf("Error: %v", msg.err)))
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd
}

// toggleMode switches between text and hex input, carrying the current
// program over when it is valid.
func (m *interactiveModel) toggleMode() {
	if m.mode == modeText {
		m.mode = modeHex
		if m.err == nil {
			m.input.SetValue(m.hex)
		}
	} else {
		m.mode = modeText
		if m.err == nil {
			var b strings.Builder
			for _, in := range m.prog {
				b.WriteString(m.env.u.Format(in))
			}
			m.input.SetValue(b.String())
		}
	}
	m.input.Prompt = m.mode.String() + "> "
	m.input.CursorEnd()
	m.refresh()
}

func (m *interactiveModel) refresh() {
	m.prog, m.hex, m.err = nil, "", nil
	m.output = nil

	value := m.input.Value()
	if value == "" {
		return
	}

	var prog []isa.Instruction
	var err error
	if m.mode == modeHex {
		var b []byte
		b, err = decodeHex(value)
		if err == nil {
			prog, err = isa.DecodeProgram(m.env.u, b)
		}
	} else {
		prog, err = m.env.u.ParseAll(value)
	}
	if err != nil {
		m.err = err
		return
	}

	b, err := isa.EncodeProgram(m.env.u, prog)
	if err != nil {
		m.err = err
		return
	}
	m.prog = prog
	m.hex = hex.EncodeToString(b)
}

func (m *interactiveModel) runProgram() tea.Msg {
	e := m.env
	machine := isa.NewMachine(e.u, isa.WithStepLimit(e.cfg.StepLimit), isa.WithMachineLogger(e.log))
	err := machine.Run(context.Background(), m.prog)

	var b strings.Builder
	printMachine(&b, machine)
	return runResultMsg{err: err, output: strings.Split(strings.TrimRight(b.String(), "\n"), "\n")}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("instrs"))
	b.WriteString(" size ")
	b.WriteString(m.env.cfg.Size)
	b.WriteString("\n\n")

	for _, c := range m.cases {
		b.WriteString(fmt.Sprintf("%3d ", c.tag))
		b.WriteString(caseStyle.Render(c.name))
		if c.typeStr != "" {
			b.WriteString("(" + typeStyle.Render(c.typeStr) + ")")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		if k, ok := errors.KindOf(m.err); ok {
			b.WriteString(helpStyle.Render(" [" + string(k) + "]"))
		}
		b.WriteString("\n")
	case len(m.prog) > 0:
		b.WriteString(resultStyle.Render(m.hex))
		b.WriteString("\n")
		for i, in := range m.prog {
			b.WriteString(fmt.Sprintf("%3d %s\n", i, m.env.u.Format(in)))
		}
	}

	if len(m.output) > 0 {
		b.WriteString("\n")
		for _, line := range m.output {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab text/hex • enter run • esc quit"))
	return b.String()
}

func runInteractive(e *env) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.InvalidInput(errors.PhaseConfig, "interactive mode needs a terminal")
	}
	p := tea.NewProgram(newInteractiveModel(e), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
