package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goerrors "github.com/kbukum/gosh/errors"
)

func TestEnv(t *testing.T) {
	env := NewEnv([]string{"HOME=/root", "EMPTY=", "EQ=a=b", "=ignored"})

	assert.Equal(t, "/root", env.Get("HOME"))
	assert.Equal(t, "a=b", env.Get("EQ"))
	v, ok := env.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	_, ok = env.Lookup("NOPE")
	assert.False(t, ok)
	assert.Equal(t, []string{"EMPTY", "EQ", "HOME"}, env.Names())
}

func TestEnv_Assert(t *testing.T) {
	env := NewEnv([]string{"A=1", "B=2", "EMPTY="})

	values, err := env.Assert("B", "A", "EMPTY")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1", ""}, values)

	_, err = env.Assert("A", "X")
	require.Error(t, err)
	appErr, _ := goerrors.AsAppError(err)
	assert.Equal(t, "Environment variable must be set: X", appErr.Message)

	_, err = env.Assert("X", "Y")
	appErr, _ = goerrors.AsAppError(err)
	assert.Equal(t, "Environment variables must be set: X, Y", appErr.Message)

	_, err = env.AssertNonEmpty("A", "EMPTY")
	appErr, _ = goerrors.AsAppError(err)
	assert.Equal(t, "Environment variable must be set: EMPTY", appErr.Message)
	assert.Equal(t, goerrors.ErrCodeUsage, appErr.Code)
}
