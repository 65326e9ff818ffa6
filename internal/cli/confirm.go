package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// errDeclined is returned when the user answers no to a destructive prompt.
var errDeclined = errors.New("nothing done")

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	// Confirm shows prompt and reports whether the answer was yes.
	// End of input counts as no.
	Confirm(prompt string) (bool, error)
}

// NewConfirmer returns a [Confirmer] reading answers from in.
// An interactive terminal gets line editing through liner; anything else
// (pipes, test buffers) is read line by line and the prompt goes to out.
func NewConfirmer(in io.Reader, out io.Writer) Confirmer {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) && liner.TerminalSupported() {
		return terminalConfirmer{}
	}

	if in == nil {
		in = strings.NewReader("")
	}

	return &lineConfirmer{in: bufio.NewReader(in), out: out}
}

type terminalConfirmer struct{}

func (terminalConfirmer) Confirm(prompt string) (bool, error) {
	state := liner.NewLiner()
	defer state.Close()

	state.SetCtrlCAborts(true)

	answer, err := state.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, nil
		}

		return false, fmt.Errorf("reading answer: %w", err)
	}

	return isYes(answer), nil
}

type lineConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (c *lineConfirmer) Confirm(prompt string) (bool, error) {
	_, _ = fmt.Fprint(c.out, prompt)

	answer, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}

	_, _ = fmt.Fprintln(c.out)

	return isYes(answer), nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
