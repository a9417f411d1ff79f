package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalPasswordReader reads secrets without echo when stdin is a terminal.
// It returns nil otherwise so that the menu falls back to line input.
func TerminalPasswordReader(stdin *os.File, out io.Writer) PasswordReader {
	fd := int(stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}

	return func(prompt string) (string, error) {
		_, _ = fmt.Fprint(out, prompt)
		secret, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}
}
