// Command queuen is the queuen interpreter: an interactive shell when run
// without arguments, a script runner otherwise.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/korawend/queuen"
	"github.com/korawend/queuen/drive"
	"github.com/korawend/queuen/errortypes"
	"github.com/korawend/queuen/repl"
)

func main() {
	var (
		limit   int
		noColor bool
		watch   bool
	)

	var rootCmd = &cobra.Command{
		Use:   "queuen [script...]",
		Short: "Interpreter for the queuen queue language",
		Long: "queuen evaluates expressions over lazy queues. With no arguments it\n" +
			"starts an interactive shell; with script files it runs them in order.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				var sh = repl.New(os.Stdin, os.Stdout)
				sh.Color = !noColor
				sh.Limit = limit
				return sh.Run()
			}
			return runScripts(os.Stdout, args, limit, watch)
		},
	}

	rootCmd.PersistentFlags().IntVar(&limit, "limit", drive.Limit, "maximum elements drawn from a queue before truncating")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&watch, "watch", false, "watch script files and re-run on change")

	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func runScripts(w io.Writer, paths []string, limit int, watch bool) error {
	var bundle = queuen.NewBundle().WatchFiles(watch)
	if watch {
		bundle.OnUpdate(func(reg *queuen.Registry) {
			if err := reg.RunAll(w, limit); err != nil {
				queuen.Logger.Println(err)
			}
		})
	}
	for _, path := range paths {
		bundle.AddScriptFile(path)
	}
	registry, err := bundle.Compile()
	if err != nil {
		return err
	}
	if err := registry.RunAll(w, limit); err != nil {
		return err
	}
	if watch {
		select {} // re-runs happen on the watcher's goroutine
	}
	return nil
}

// reportError shows the source position for errors that carry one.
func reportError(w io.Writer, err error) {
	if pos := errortypes.ToErrFilePos(err); pos != nil {
		if pos.File() != "" {
			fmt.Fprintf(w, "%s:%d:%d: %s\n", pos.File(), pos.Line(), pos.Col(), err)
		} else {
			fmt.Fprintf(w, "%d:%d: %s\n", pos.Line(), pos.Col(), err)
		}
		return
	}
	fmt.Fprintln(w, "error:", err)
}
