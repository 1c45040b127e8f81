package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNonInteractive is returned when confirmation is needed but stdin is not a terminal.
var ErrNonInteractive = fmt.Errorf("non-interactive stdin: use -y to write into a non-empty output directory")

type Confirmer struct {
	In            io.Reader
	Out           io.Writer
	IsInteractive func() bool
}

func DefaultConfirmer() Confirmer {
	return Confirmer{
		In:  os.Stdin,
		Out: os.Stdout,
		IsInteractive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// ConfirmNonEmptyOutput asks before cropping into an output directory that
// already holds files with potentially colliding names. force skips the question.
func (c Confirmer) ConfirmNonEmptyOutput(dir string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return c.ask(fmt.Sprintf("Output directory %s is not empty; files with the same name will be replaced. Continue? (y/n): ", dir))
}

func (c Confirmer) ask(question string) (bool, error) {
	if c.IsInteractive == nil || !c.IsInteractive() {
		return false, ErrNonInteractive
	}
	if c.Out != nil {
		fmt.Fprint(c.Out, question)
	}
	reader := bufio.NewReader(c.In)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
