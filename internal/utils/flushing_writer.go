package utils

import (
	"io"
	"sync"
)

type flushableWriter interface {
	Flush() error
}

// FlushingWriter forwards writes to the wrapped writer and flushes it after
// every write so summary lines reach the operator before the process exits.
type FlushingWriter struct {
	destination io.Writer
	writeGuard  sync.Mutex
}

// NewFlushingWriter wraps the provided writer. Unbuffered writers are wrapped
// as well; the flush step is skipped for them.
func NewFlushingWriter(destination io.Writer) io.Writer {
	if destination == nil {
		return nil
	}
	if _, alreadyWrapping := destination.(*FlushingWriter); alreadyWrapping {
		return destination
	}
	return &FlushingWriter{destination: destination}
}

// Write sends data to the wrapped writer and flushes when supported.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	if writer == nil || writer.destination == nil {
		return 0, nil
	}

	writer.writeGuard.Lock()
	defer writer.writeGuard.Unlock()

	writtenBytes, writeError := writer.destination.Write(data)
	if writeError != nil {
		return writtenBytes, writeError
	}

	if bufferedDestination, supportsFlush := writer.destination.(flushableWriter); supportsFlush {
		if flushError := bufferedDestination.Flush(); flushError != nil {
			return writtenBytes, flushError
		}
	}

	return writtenBytes, nil
}
