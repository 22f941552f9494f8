package client

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// terminalPrompter reads from stdin. Passwords are read without echo when
// stdin is a terminal and as plain lines otherwise, so input can be piped.
type terminalPrompter struct {
	in     *os.File
	reader *bufio.Reader
	out    io.Writer
}

func newTerminalPrompter(in *os.File, out io.Writer) *terminalPrompter {
	return &terminalPrompter{in: in, reader: bufio.NewReader(in), out: out}
}

func (p *terminalPrompter) Password(prompt string) (string, error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return p.Line(prompt)
	}

	fmt.Fprint(p.out, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out) // newline after hidden input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

func (p *terminalPrompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readNewPassword asks twice and requires both answers to match.
func readNewPassword(p Prompter, prompt string) (string, error) {
	password, err := p.Password(prompt)
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", ErrEmptyInput
	}

	confirm, err := p.Password("Repeat password: ")
	if err != nil {
		return "", err
	}
	if confirm != password {
		return "", ErrPasswordMismatch
	}
	return password, nil
}
