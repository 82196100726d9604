package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunSafelyPassesThroughExitCode(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	exitCode := runSafely(nil, func([]string) int { return 0 }, &out)

	assert.Equal(t, 0, exitCode)
	assert.Empty(t, out.String())
}

func TestRunSafelyRecoversPanic(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	exitCode := runSafely(nil, func([]string) int { panic("boom") }, &out)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, out.String(), "panic recovered: boom")
}

func TestRunWithArgsHelp(t *testing.T) {
	t.Parallel()

	exitCode := runWithArgs([]string{"--help"})

	assert.Equal(t, 0, exitCode)
}
