package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/mincss/mincss"
)

var reprFlag bool

var treeCmd = &cobra.Command{
	Use:   "tree [file...]",
	Short: "Parse input and print the node tree",
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
			p := mincss.NewParser(lex, diag, log)
			root := p.Parse()
			if reprFlag {
				fmt.Println(repr.String(root, repr.Indent("  ")))
			} else {
				fmt.Print(mincss.FormatTree(root))
			}
			printDiagnostics(diag, color)
		}
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVar(&reprFlag, "repr", false, "dump the tree as a Go-syntax repr instead of the line-oriented format")
	rootCmd.AddCommand(treeCmd)
}
