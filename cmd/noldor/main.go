// Command noldor is the interpreter's CLI: run each script file given,
// in order, or drop into a REPL when none is given (§11.2). Built on cobra/go-isatty,
// the same combination the rest of the example pack reaches for
// (GlyphLang-GlyphLang, funvibe-funxy, hejops-gone) in place of the
// teacher's own hand-rolled flag.FlagSet parser.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/al-khanji/noldor"
)

func main() {
	var (
		traceEval bool
		logGC     bool
	)

	root := &cobra.Command{
		Use:   "noldor [script...]",
		Short: "A small Scheme interpreter",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := noldor.NewConfig()
			cfg.SetBool("eval.trace", traceEval)
			cfg.SetBool("gc.log_cycles", logGC)
			interp := noldor.NewWithConfig(cfg)
			defer interp.Sync()

			if len(args) > 0 {
				for _, path := range args {
					if err := interp.LoadFile(path); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
				}
				return nil
			}

			return runREPL(interp)
		},
	}

	root.Flags().BoolVar(&traceEval, "trace-eval", false, "log every top-level form as it is evaluated")
	root.Flags().BoolVar(&logGC, "log-gc", false, "log every garbage collection cycle")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runREPL(interp *noldor.Interpreter) error {
	repl := noldor.NewREPLStdio(interp, isatty.IsTerminal(os.Stdin.Fd()))
	repl.Run()
	return nil
}
