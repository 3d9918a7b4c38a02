package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"curator/internal/filename"
	"curator/internal/metadata"
	"curator/internal/services"
)

// Input is one file to classify. Err is set when the record could not be
// produced; the file is still listed in the manifest.
type Input struct {
	Record metadata.Record
	Err    error
}

// InputsFromNames parses file names into records.
func InputsFromNames(parser *filename.Parser, names []string) []Input {
	inputs := make([]Input, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		inputs = append(inputs, Input{Record: parser.Parse(name)})
	}
	return inputs
}

// ReadRecords decodes JSON-lines metadata records. A malformed line becomes
// an Input carrying the decode error so the run still accounts for it.
func ReadRecords(r io.Reader) ([]Input, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var inputs []Input
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec metadata.Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			inputs = append(inputs, Input{
				Record: metadata.Record{Filename: fmt.Sprintf("records:%d", line)},
				Err:    services.Wrap(services.ErrValidation, "batch", "decode record", fmt.Sprintf("line %d", line), err),
			})
			continue
		}
		if strings.TrimSpace(rec.Filename) == "" {
			rec.Filename = fmt.Sprintf("records:%d", line)
		}
		inputs = append(inputs, Input{Record: rec})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return inputs, nil
}
