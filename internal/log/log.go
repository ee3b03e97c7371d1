package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
)

// Setup configures the global logger with the given level name.
func Setup(level string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	if out == nil {
		out = os.Stderr
	}

	logrus.SetOutput(out)
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	return nil
}

// WithSpinner executes the given function while showing a spinner with the specified message.
func WithSpinner(message string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	err := s.Color("green")
	if err != nil {
		return fmt.Errorf("coloring green: %w", err)
	}

	s.Start()
	s.FinalMSG = message + " \033[32m[done]\033[0m\n"
	defer s.Stop()

	return fn()
}
