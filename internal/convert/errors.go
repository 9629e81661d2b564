package convert

import "fmt"

// IOError reports a failure opening, reading, writing or replacing a file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FormatError reports a timing line whose fields do not form a valid time.
// Line is 1-based and zero when the text did not come from a file.
type FormatError struct {
	Line int
	Text string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: invalid timecode %q: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("invalid timecode %q: %v", e.Text, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
