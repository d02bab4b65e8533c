package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed. If EOF occurs after some input
// was read, the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetInt prompts for an integer in [min, max] and re-prompts until the user
// supplies one. An I/O error or EOF aborts with the error.
func GetInt(reader *bufio.Reader, prompt string, min, max int, w io.Writer) (int, error) {
	for {
		text, err := GetSimpleText(reader, fmt.Sprintf("%s (%d-%d)", prompt, min, max), w)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(text)
		if err != nil || n < min || n > max {
			if _, err := fmt.Fprintf(w, "Please enter a number between %d and %d.\n", min, max); err != nil {
				return 0, err
			}
			continue
		}
		return n, nil
	}
}
