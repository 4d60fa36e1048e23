package ui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when a password prompt is requested but stdin
// is not a terminal
var ErrNotTerminal = errors.New("cannot prompt for password: stdin is not a terminal")

// PromptPassword asks for the device web password without echoing it
func PromptPassword(out io.Writer, deviceURL string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}

	_, _ = fmt.Fprint(out, HeaderParamKeyStyle.Render(fmt.Sprintf("Password for %s: ", deviceURL)))
	password, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
