package consolidator

import (
	"errors"
	"fmt"
)

// ErrNoMatchingFiles is the sentinel wrapped by NoMatchingFilesError.
var ErrNoMatchingFiles = errors.New("no matching files")

// NoMatchingFilesError reports a glob that matched nothing. No output is
// written in that case.
type NoMatchingFilesError struct {
	Directory string
	Pattern   string
}

func (e *NoMatchingFilesError) Error() string {
	return fmt.Sprintf("no files found matching pattern %q in %s", e.Pattern, e.Directory)
}

func (e *NoMatchingFilesError) Unwrap() error {
	return ErrNoMatchingFiles
}

// FileReadError reports a matched file that could not be opened or decoded.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// FileWriteError reports an output file that could not be written.
type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *FileWriteError) Unwrap() error {
	return e.Err
}
