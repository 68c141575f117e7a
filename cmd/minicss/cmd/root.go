package cmd

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mincss/mincss"
)

var (
	rootCmd = &cobra.Command{
		Use:          "minicss",
		Short:        "minicss",
		SilenceUsage: true,
		Long:         `A CSS 2.1/3 tokenizer and shallow tree builder. See the lex and tree subcommands.`,
	}

	colorFlag string
	debugFlag bool
)

// Execute runs the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "colorize diagnostics: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "emit a trace: prefixed debug log to stderr")
	return rootCmd.Execute()
}

func init() {
}

// traceLogger returns the structured logger threaded into the
// Scanner/Lexer/Parser when --debug is set, or a discarding logger
// otherwise.
func traceLogger() logrus.FieldLogger {
	if !debugFlag {
		return nil
	}
	return mincss.NewDebugLogger(os.Stderr)
}

// useColor resolves the --color flag the way coreutils-style tools do:
// "auto" colorizes only when stderr is a terminal.
func useColor(w io.Writer) bool {
	switch colorFlag {
	case "always":
		return true
	case "never":
		return false
	default:
		if f, ok := w.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
