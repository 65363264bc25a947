package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptPassword reads a password from the terminal without echo. When
// stdin is not a terminal (pipes, scripts) it falls back to reading one
// plain line.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptNewPassword asks for a password twice and verifies both entries
// match.
func promptNewPassword() (string, error) {
	password, err := promptPassword("Master password: ")
	if err != nil {
		return "", err
	}
	confirmation, err := promptPassword("Confirm master password: ")
	if err != nil {
		return "", err
	}
	if password != confirmation {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}
