package cmd

import (
	"github.com/spf13/afero"

	"github.com/mincss/mincss"
)

// loadSources resolves the CLI's positional arguments to a list of
// mincss.Source: no arguments reads stdin, otherwise each argument names
// a file on the real filesystem. Multiple files are processed
// sequentially, in argument order, never concurrently — each needs its
// own Scanner/Diagnostics pair and there's no benefit to overlapping
// small, synchronous passes.
func loadSources(args []string) ([]mincss.Source, error) {
	if len(args) == 0 {
		return []mincss.Source{mincss.Stdin()}, nil
	}
	fs := afero.NewOsFs()
	sources := make([]mincss.Source, 0, len(args))
	for _, path := range args {
		src, err := mincss.File(fs, path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}
