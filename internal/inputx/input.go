// Package inputx reads interactive answers for the command-line tools.
package inputx

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"golang.org/x/term"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// Seams for tests, so they never touch a real terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
	stdinFd      = func() int { return int(os.Stdin.Fd()) }
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The line is trimmed. If EOF occurs after some input was read, the partial
// line is returned.
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

// GetPassword prints prompt to w and reads a password without echo. When
// stdin is not a terminal (piped input) one line is read from reader instead.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(reader *bufio.Reader, prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}

	fd := stdinFd()
	if !isTerminal(fd) {
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return nil, err
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}

	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetNewPassword asks for a password twice and fails with
// ErrPasswordMismatch when the answers differ.
func GetNewPassword(reader *bufio.Reader, w io.Writer) ([]byte, error) {
	pw, err := GetPassword(reader, "Enter password", w)
	if err != nil {
		return nil, err
	}
	confirm, err := GetPassword(reader, "Confirm password", w)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		common.WipeByteArray(pw)
		return nil, ErrPasswordMismatch
	}
	return pw, nil
}

// Console prompts on an interactive session.
type Console struct {
	In  *bufio.Reader
	Out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{In: bufio.NewReader(in), Out: out}
}

func (c *Console) Text(prompt string) (string, error) {
	return GetSimpleText(c.In, prompt, c.Out)
}

func (c *Console) Password(prompt string) ([]byte, error) {
	return GetPassword(c.In, prompt, c.Out)
}

func (c *Console) NewPassword() ([]byte, error) {
	return GetNewPassword(c.In, c.Out)
}
