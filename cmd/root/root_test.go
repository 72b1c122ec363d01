package root_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/mood-journal/cmd/root"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	for _, key := range []string{"LOG_LEVEL", "LOG_FORMAT", "MOODJOURNAL_LOG_LEVEL", "MOODJOURNAL_LOG_FORMAT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	root.ConfigFile, root.LogLevel, root.LogFormat = "", "", ""
	t.Cleanup(func() { root.ConfigFile, root.LogLevel, root.LogFormat = "", "", "" })
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "mood-journal", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "tags each entry with an emotion")
	assert.Contains(t, root.Cmd.Long, "keyword heuristic")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()
	root.Init()

	configFlag := root.Cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	assert.NotNil(t, root.Cmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, root.Cmd.PersistentFlags().Lookup("log-format"))
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestSetup_Defaults(t *testing.T) {
	resetFlags(t)

	require.NoError(t, root.Setup())
	assert.Equal(t, "info", root.AppConfig.Log.Level)
	assert.Equal(t, logrus.InfoLevel, root.Log.GetLevel())
}

func TestSetup_FlagOverrides(t *testing.T) {
	resetFlags(t)
	root.LogLevel = "debug"
	root.LogFormat = "json"

	require.NoError(t, root.Setup())
	assert.Equal(t, "debug", root.AppConfig.Log.Level)
	assert.Equal(t, "json", root.AppConfig.Log.Format)
	assert.Equal(t, logrus.DebugLevel, root.Log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, root.Log.Formatter)
}

func TestSetup_InvalidOverrides(t *testing.T) {
	resetFlags(t)
	root.LogLevel = "loud"
	assert.ErrorContains(t, root.Setup(), "invalid log level")

	root.LogLevel = ""
	root.LogFormat = "xml"
	assert.ErrorContains(t, root.Setup(), "invalid log format")
}

func TestSetup_ConfigFile(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8081\n"), 0600))
	root.ConfigFile = path

	require.NoError(t, root.Setup())
	assert.Equal(t, 8081, root.AppConfig.Server.Port)

	root.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")
	assert.Error(t, root.Setup())
}
