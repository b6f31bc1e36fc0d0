package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"DEBUG":   logrus.DebugLevel,
		"error":   logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
		"info":    logrus.InfoLevel,
		"trace":   logrus.TraceLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"":        logrus.InfoLevel,
		"loud":    logrus.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, GetLevel(in), "level %q", in)
	}
}

func TestSetup_ConsoleAndFile(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	defer logrus.SetLevel(logrus.InfoLevel)

	console := &bytes.Buffer{}
	logFile := filepath.Join(t.TempDir(), "client")

	Setup(LoggerSetupParams{
		LogFileName:  logFile,
		LogToConsole: true,
		LogLevel:     "debug",
		Console:      console,
	})

	logrus.Debugln("hello from test")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.Contains(t, console.String(), "hello from test")

	fileContent, err := os.ReadFile(logFile + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(fileContent), "hello from test")
}

func TestSetup_ConsoleOnly(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	defer logrus.SetLevel(logrus.InfoLevel)

	console := &bytes.Buffer{}
	Setup(LoggerSetupParams{
		LogLevel: "error",
		Console:  console,
	})

	logrus.Infoln("not visible")
	logrus.Errorln("visible")
	assert.NotContains(t, console.String(), "not visible")
	assert.Contains(t, console.String(), "visible")
}

func TestSentryHook_Fire(t *testing.T) {
	var captured []*sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			captured = append(captured, event)
			return nil
		},
	})
	require.NoError(t, err)
	hub := sentry.NewHub(client, sentry.NewScope())

	hook := newSentryHookWithHub([]logrus.Level{logrus.ErrorLevel}, hub)
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	logger.AddHook(hook)

	logger.WithField("err", errors.New("boom")).WithField("courseId", "c1").Error("enroll failed")
	logger.Warn("ignored by hook")

	require.Len(t, captured, 1)
	assert.Equal(t, "enroll failed", captured[0].Message)
	assert.Equal(t, sentry.LevelError, captured[0].Level)
	assert.Equal(t, "boom", captured[0].Extra["err"])
	assert.Equal(t, "c1", captured[0].Extra["courseId"])
}
