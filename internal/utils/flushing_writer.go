package utils

import (
	"io"
	"sync"
)

// FlushingWriter forwards report output to an underlying writer, flushing it after every
// write when supported. The first write or flush failure is retained and every later
// write is dropped, so callers emitting many lines can check Err once at the end.
type FlushingWriter struct {
	writer     io.Writer
	mutex      sync.Mutex
	firstError error
}

// NewFlushingWriter wraps the provided writer. Writers that are already wrapped are returned as is.
func NewFlushingWriter(writer io.Writer) *FlushingWriter {
	if existingWriter, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return existingWriter
	}
	if writer == nil {
		writer = io.Discard
	}
	return &FlushingWriter{writer: writer}
}

// Write delegates to the underlying writer and flushes it when possible.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return len(data), nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	if flushingWriter.firstError != nil {
		return 0, flushingWriter.firstError
	}

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		flushingWriter.firstError = writeError
		return bytesWritten, writeError
	}

	if flushableWriter, implementsFlush := flushingWriter.writer.(interface{ Flush() error }); implementsFlush {
		if flushError := flushableWriter.Flush(); flushError != nil {
			flushingWriter.firstError = flushError
			return bytesWritten, flushError
		}
	}

	return bytesWritten, nil
}

// Err reports the first failure observed by the writer.
func (flushingWriter *FlushingWriter) Err() error {
	if flushingWriter == nil {
		return nil
	}
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()
	return flushingWriter.firstError
}
