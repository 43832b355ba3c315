package shared

import (
	"fmt"
	"io"
	"os"
)

// Reporter emits formatted report lines to an underlying sink.
type Reporter interface {
	Printf(format string, args ...any)
	Println(args ...any)
}

type writerReporter struct {
	writer io.Writer
}

// NewWriterReporter constructs a Reporter that writes to the provided io.Writer,
// falling back to standard output when none is given.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return writerReporter{writer: writer}
}

func (reporter writerReporter) Printf(format string, args ...any) {
	fmt.Fprintf(reporter.writer, format, args...)
}

func (reporter writerReporter) Println(args ...any) {
	fmt.Fprintln(reporter.writer, args...)
}
