// Package prompt reads the description that add asks for.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Question is shown before reading the description.
const Question = "Enter a description for the todo:"

// ErrCanceled is returned when the user leaves the interactive prompt.
var ErrCanceled = errors.New("canceled")

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Description asks for a description and returns it trimmed.
// Terminals get a text input; anything else is read as a single line.
func Description(in io.Reader, out io.Writer) (string, error) {
	if IsTerminal(in) {
		return interactive(in, out)
	}
	return ReadLine(in, out)
}

// ReadLine prints the question and reads one line from in.
// EOF without input yields an empty description.
func ReadLine(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprintln(out, Question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read description: %w", err)
	}
	return strings.TrimSpace(line), nil
}

type inputModel struct {
	ti       textinput.Model
	done     bool
	canceled bool
}

func newInputModel() inputModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Description..."
	ti.CharLimit = 0
	ti.Focus()
	return inputModel{ti: ti}
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.canceled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.canceled {
		return ""
	}
	return Question + "\n" + m.ti.View() + "\n"
}

func (m inputModel) value() string {
	return strings.TrimSpace(m.ti.Value())
}

func interactive(in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(newInputModel(), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	m, ok := final.(inputModel)
	if !ok || m.canceled {
		return "", ErrCanceled
	}
	return m.value(), nil
}
