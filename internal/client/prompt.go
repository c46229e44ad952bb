package client

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword prompts without echo when stdin is a terminal and falls back
// to a plain line read otherwise, so the commands stay scriptable.
func (a *App) readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(a.stdout, prompt)

	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stdout)
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		return password, nil
	}

	line, err := a.readLine()
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}

// readNewPassword prompts twice and requires both entries to match.
func (a *App) readNewPassword(prompt string) ([]byte, error) {
	first, err := a.readPassword(prompt)
	if err != nil {
		return nil, err
	}
	second, err := a.readPassword("Repeat: ")
	if err != nil {
		wipe(first)
		return nil, err
	}

	if string(first) != string(second) {
		wipe(first)
		wipe(second)
		return nil, fmt.Errorf("passwords do not match")
	}
	wipe(second)
	return first, nil
}

func (a *App) readLine() (string, error) {
	// One buffered reader per App: a fresh bufio.Reader per prompt would
	// swallow input buffered past the first newline.
	if a.reader == nil {
		a.reader = bufio.NewReader(a.stdin)
	}
	line, err := a.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
