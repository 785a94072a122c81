package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetupWithOutput(t *testing.T) {
	defer Setup(false, "")

	var tests = []struct {
		name    string
		debug   bool
		level   logrus.Level
		logFile bool
	}{
		{"info level", false, logrus.InfoLevel, false},
		{"debug level", true, logrus.DebugLevel, false},
		{"with log file", false, logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			file := ""
			if tt.logFile {
				file = filepath.Join(t.TempDir(), "logs", "viewer.log")
			}
			SetupWithOutput(tt.debug, file, &buf)

			if got := logrus.GetLevel(); got != tt.level {
				t.Errorf("\ngot level %s, wanted %s", got, tt.level)
			}
			logrus.Info("hello viewer")
			if !strings.Contains(buf.String(), "hello viewer") {
				t.Errorf("\ngot output %q", buf.String())
			}
			if tt.logFile {
				data, err := os.ReadFile(file)
				if err != nil {
					t.Fatalf("\ngot unexpected error: \"%v\"", err)
				}
				if !strings.Contains(string(data), "hello viewer") {
					t.Errorf("\ngot file content %q", data)
				}
			}
		})
	}
}
