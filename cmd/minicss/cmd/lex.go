package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mincss/mincss"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file...]",
	Short: "Tokenize input and print one line per token",
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := loadSources(args)
		if err != nil {
			return err
		}
		color := useColor(os.Stderr)
		log := traceLogger()

		for _, src := range sources {
			diag := mincss.NewDiagnostics()
			sc, err := mincss.NewScanner(src.Reader(), diag, log)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name(), err)
			}
			lex := mincss.NewLexer(sc, diag, log)
			for _, t := range lex.All() {
				fmt.Println(mincss.FormatToken(t))
			}
			printDiagnostics(diag, color)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func printDiagnostics(diag *mincss.Diagnostics, color bool) {
	for _, d := range diag.All() {
		if color {
			fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", d.String())
		} else {
			fmt.Fprintln(os.Stderr, d.String())
		}
	}
}
