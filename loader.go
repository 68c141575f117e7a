package mincss

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// Source resolves to an io.Reader ready for NewScanner. The loader never
// decodes anything itself — UTF-8 decoding and the U+FFFD
// replacement-on-malformed-input policy belong to the Scanner.
type Source struct {
	name   string
	reader io.Reader
}

// Name returns the source's display name, used for CLI output and
// error messages ("<stdin>" for Stdin sources).
func (s Source) Name() string { return s.name }

// Reader returns the underlying io.Reader, ready for NewScanner.
func (s Source) Reader() io.Reader { return s.reader }

// Stdin wraps the process's standard input.
func Stdin() Source {
	return Source{name: "<stdin>", reader: os.Stdin}
}

// File opens path on fs. Production code passes afero.NewOsFs(); tests
// pass afero.NewMemMapFs() so lexer/tree-builder behavior against file
// input can be asserted without touching disk.
func File(fs afero.Fs, path string) (Source, error) {
	f, err := fs.Open(path)
	if err != nil {
		return Source{}, newLoaderError("loader", path, err)
	}
	return Source{name: path, reader: f}, nil
}

// Bytes wraps an in-memory buffer.
func Bytes(name string, b []byte) Source {
	return Source{name: name, reader: bytes.NewReader(b)}
}

// String wraps an in-memory string — the path most of the test suite
// uses, since the invariants under test are about the token/tree stream,
// not about I/O.
func String(name string, s string) Source {
	return Source{name: name, reader: strings.NewReader(s)}
}
