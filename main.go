package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/mood-journal/cmd/batch"
	"fjacquet/mood-journal/cmd/classify"
	configcmd "fjacquet/mood-journal/cmd/config"
	"fjacquet/mood-journal/cmd/feed"
	"fjacquet/mood-journal/cmd/root"
	"fjacquet/mood-journal/cmd/serve"
	"fjacquet/mood-journal/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	config.LoadEnv()

	// 2. Configure the global log level before any logger is created
	configureLogLevelDirectly()

	// 3. Initialize root command
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(feed.Cmd)
	root.Cmd.AddCommand(configcmd.Cmd)
}

// configureLogLevelDirectly sets the global logrus level from LOG_LEVEL.
func configureLogLevelDirectly() logrus.Level {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	root.Log.SetLevel(logLevel)

	return logLevel
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
