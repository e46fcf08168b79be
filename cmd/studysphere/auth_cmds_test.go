package main

import (
	"bufio"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func withInput(t *testing.T, input string) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})

	origFile, origReader := os.Stdin, stdin
	os.Stdin = r
	stdin = bufio.NewReader(strings.NewReader(input))
	t.Cleanup(func() {
		os.Stdin = origFile
		stdin = origReader
	})
}

func TestAskSecret_FlagValueWins(t *testing.T) {
	withInput(t, "typed\n")

	got, err := askSecret("Password", "from-flag")
	require.NoError(t, err)
	require.Equal(t, "from-flag", got)
}

func TestAskSecret_PipedInputReadsLine(t *testing.T) {
	withInput(t, "  correct-horse-9  \nnext\n")

	got, err := askSecret("Password", "")
	require.NoError(t, err)
	require.Equal(t, "correct-horse-9", got)

	got, err = ask("Username", "")
	require.NoError(t, err)
	require.Equal(t, "next", got)
}

func TestAsk_EmptyInputFails(t *testing.T) {
	withInput(t, "")

	_, err := ask("Email", "")
	require.ErrorContains(t, err, "read email")
}
