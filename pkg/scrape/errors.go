package scrape

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies why a scrape failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindIO
	KindProcess
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindProcess:
		return "process"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is returned by every stage of the scrape pipeline.
// Only the context field matching Kind is set.
type Error struct {
	Kind Kind

	// Path of the file or directory (KindIO)
	Path string
	// Command line of the status query (KindProcess)
	Command string
	// Offending dump line and its 1-based position (KindParse)
	Line       string
	LineNumber int

	Err error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindIO:
		msg = fmt.Sprintf("unable to read '%s'", e.Path)
	case KindProcess:
		msg = fmt.Sprintf("unable to run '%s'", e.Command)
	case KindParse:
		msg = fmt.Sprintf("unable to parse dump line %d '%s'", e.LineNumber, strings.ReplaceAll(e.Line, "\t", " "))
	default:
		msg = "scrape failed"
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Cause() error {
	return e.Err
}

func IOError(path string, err error) *Error {
	return &Error{Kind: KindIO, Path: path, Err: err}
}

func ProcessError(command string, err error) *Error {
	return &Error{Kind: KindProcess, Command: command, Err: err}
}

func ParseError(lineNumber int, line string, err error) *Error {
	return &Error{Kind: KindParse, LineNumber: lineNumber, Line: line, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var scrapeErr *Error
	if errors.As(err, &scrapeErr) {
		return scrapeErr.Kind
	}
	return KindUnknown
}

func IsIOError(err error) bool {
	return KindOf(err) == KindIO
}

func IsProcessError(err error) bool {
	return KindOf(err) == KindProcess
}

func IsParseError(err error) bool {
	return KindOf(err) == KindParse
}
