package curated

import (
	"bufio"
	"io"
	"strings"
)

type documentLine struct {
	number int
	text   string
}

// readLines yields trimmed, non-empty lines with list bullets removed. Lines
// starting with "#" are returned so callers can treat headings specially.
func readLines(r io.Reader) ([]documentLine, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []documentLine
	number := 0
	for scanner.Scan() {
		number++
		text := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if text == "" || strings.HasPrefix(text, "<!--") || strings.HasPrefix(text, ">") {
			continue
		}
		for _, bullet := range []string{"- ", "* ", "+ "} {
			if strings.HasPrefix(text, bullet) {
				text = strings.TrimSpace(text[len(bullet):])
				break
			}
		}
		if text == "" {
			continue
		}
		lines = append(lines, documentLine{number: number, text: text})
	}
	return lines, scanner.Err()
}
