package mincss

// LoaderError reports a fatal failure to resolve an input into bytes — a
// missing or unreadable file. Lexing and tree-building never return an
// error of their own (every problem they hit is a recoverable
// Diagnostic, see diagnostic.go); this type exists solely for the
// source-loader boundary (loader.go), where the CLI's exit code actually
// depends on success or failure.
type LoaderError struct {
	Path    string
	Sender  string
	OrigErr error
}

// Error returns a bracketed, human-readable summary of the failure.
func (e *LoaderError) Error() string {
	s := "[Error"
	if e.Sender != "" {
		s += " (where: " + e.Sender + ")"
	}
	if e.Path != "" {
		s += " in " + e.Path
	}
	s += "] "
	if e.OrigErr != nil {
		s += e.OrigErr.Error()
	}
	return s
}

// Unwrap exposes the underlying filesystem error for errors.Is/As.
func (e *LoaderError) Unwrap() error { return e.OrigErr }

func newLoaderError(sender, path string, err error) *LoaderError {
	return &LoaderError{Path: path, Sender: sender, OrigErr: err}
}
