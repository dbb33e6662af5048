package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_CleanPassthrough(t *testing.T) {
	out, err := SanitizeInput("What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "What is the capital of France?", out)
}

func TestSanitizeInput_StripsControlCharacters(t *testing.T) {
	out, err := SanitizeInput("hello\x1b[31mworld\x00")
	require.NoError(t, err)
	assert.Equal(t, "hello[31mworld", out)
}

func TestSanitizeInput_PreservesWhitespaceControls(t *testing.T) {
	out, err := SanitizeInput("line one\nline two\ttabbed\r")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\ttabbed\r", out)
}

func TestSanitizeInput_RejectsOversized(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "16")

	_, err := SanitizeInput(strings.Repeat("a", 17))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSanitizeInput_RejectsInvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("bad\xff\xfebytes")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestSanitizeInput_EnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "not-a-number")

	out, err := SanitizeInput("still fine")
	require.NoError(t, err)
	assert.Equal(t, "still fine", out)
}
