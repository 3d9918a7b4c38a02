package curated

import (
	"errors"
	"fmt"
	"os"

	"curator/internal/services"
)

var (
	// ErrAmbiguousDestination marks entries such as "Core or Reference".
	ErrAmbiguousDestination = errors.New("ambiguous destination")
	// ErrMalformedEntry marks lines that do not follow the document format.
	ErrMalformedEntry = errors.New("malformed entry")
)

// ParseError describes a skipped document line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func openDocument(kind, path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "curated", "open "+kind, path, err)
	}
	return file, nil
}
