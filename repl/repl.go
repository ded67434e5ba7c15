// Package repl implements the interactive queuen shell: one statement per
// line, diagnostics rendered in place, and the loop continuing until exit.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/korawend/queuen/drive"
	"github.com/korawend/queuen/lex"
	"github.com/korawend/queuen/parse"
)

// DefaultPrompt is shown before each line of input.
const DefaultPrompt = "queuen> "

// errQuit is raised by the refill callback on a literal exit or quit line.
var errQuit = errors.New("quit")

// Shell runs a read-eval-print loop over In, writing output and
// diagnostics to Out.
type Shell struct {
	In     io.Reader
	Out    io.Writer
	Prompt string // "" suppresses the prompt
	Color  bool
	Limit  int // probe bound; 0 means drive.Limit
}

// New returns a shell with the default prompt and probe bound.
func New(in io.Reader, out io.Writer) *Shell {
	return &Shell{In: in, Out: out, Prompt: DefaultPrompt}
}

// Run reads statements until end of input, an exit command, or a read
// failure. Syntax errors are printed and the loop continues.
func (sh *Shell) Run() error {
	var limit = sh.Limit
	if limit <= 0 {
		limit = drive.Limit
	}
	var in = bufio.NewReader(sh.In)

	var refill = func() (string, error) {
		sh.prompt()
		line, err := in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		switch strings.TrimSpace(line) {
		case "exit", "quit":
			return "", errQuit
		}
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		return line, nil
	}

	var stream = lex.NewTokenStream("", refill)
	for {
		node, err := parse.Line(stream)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, io.EOF):
			fmt.Fprintln(sh.Out, "exit")
			return nil
		case err != nil:
			var perr *parse.Error
			if errors.As(err, &perr) {
				io.WriteString(sh.Out, perr.Render(stream.Log(), sh.Color))
				continue
			}
			return err
		}
		if node == nil {
			continue
		}
		if err := drive.Run(sh.Out, node, limit); err != nil {
			sh.report(err)
		}
	}
}

func (sh *Shell) prompt() {
	if sh.Prompt == "" {
		return
	}
	if sh.Color {
		fmt.Fprintf(sh.Out, "\x1B[2m%s\x1B[22m", sh.Prompt)
	} else {
		io.WriteString(sh.Out, sh.Prompt)
	}
}

func (sh *Shell) report(err error) {
	if sh.Color {
		fmt.Fprintf(sh.Out, "\x1B[38;5;203merror: %s\x1B[39m\n", err)
	} else {
		fmt.Fprintf(sh.Out, "error: %s\n", err)
	}
}
