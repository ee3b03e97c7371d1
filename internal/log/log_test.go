package log

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetOutput(os.Stderr)

	var buf bytes.Buffer
	require.NoError(t, Setup("debug", &buf))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	logrus.WithField("page", 2).Debug("cache miss")
	assert.Contains(t, buf.String(), "cache miss")
	assert.Contains(t, buf.String(), "page=2")

	require.Error(t, Setup("loud", &buf))
}

func TestWithSpinner(t *testing.T) {
	called := false
	err := WithSpinner("Fetching users...", func() error {
		called = true

		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	boom := errors.New("boom")
	err = WithSpinner("Fetching users...", func() error { return boom })
	assert.ErrorIs(t, err, boom)
}
