package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Setup 初始化全局日志，输出到stdout
// debug: 是否开启debug级别
// logFile: 日志文件路径，为空时只输出到stdout
func Setup(debug bool, logFile string) {
	SetupWithOutput(debug, logFile, os.Stdout)
}

// SetupWithOutput 初始化全局日志，输出到指定的 out
// stdio 协议占用 stdout 时传入 os.Stderr
func SetupWithOutput(debug bool, logFile string, out io.Writer) {
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	logrus.SetOutput(out)
	if logFile == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		logrus.Errorf("Failed to create log directory: %v", err)
		return
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// 至少保证 out 上有输出
		logrus.Errorf("Failed to log to file: %v", err)
		return
	}
	logrus.SetOutput(io.MultiWriter(out, f))
}
