package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpersBeforeInit(t *testing.T) {
	Logger = nil
	// 未初始化时不能 panic
	Debugf("x %d", 1)
	Infof("x")
	WithField("k", "v").Info("dropped")
}

func TestInitLevelAndFile(t *testing.T) {
	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "signer.log")
	require.NoError(t, Init(Config{Level: "warn", OutputFile: file, Console: &console}))
	defer func() { Logger = nil }()

	Infof("hidden")
	Warnf("shown %s", "warning")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown warning")
	assert.Equal(t, file, GetCurrentLogFile())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "shown warning")
}

func TestJSONFormat(t *testing.T) {
	var console bytes.Buffer
	require.NoError(t, Init(Config{Level: "debug", Format: "json", Console: &console}))
	defer func() { Logger = nil }()

	WithField("tx_type", "Order").Debug("signed")
	line := strings.TrimSpace(console.String())
	assert.True(t, strings.HasPrefix(line, "{"))
	assert.Contains(t, line, `"tx_type":"Order"`)
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var console bytes.Buffer
	require.NoError(t, Init(Config{Level: "loud", Console: &console}))
	defer func() { Logger = nil }()

	Debugf("debug")
	Infof("info")
	assert.NotContains(t, console.String(), "debug")
	assert.Contains(t, console.String(), "info")
}
