// Package mlog はレベル付きのログ出力を提供する。
package mlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
)

type Level string

const (
	DEBUG Level = "debug"
	INFO  Level = "info"
	WARN  Level = "warn"
	ERROR Level = "error"
)

func (l Level) toCharm() charmlog.Level {
	switch l {
	case DEBUG:
		return charmlog.DebugLevel
	case WARN:
		return charmlog.WarnLevel
	case ERROR:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// ParseLevel は大文字小文字を区別せずにレベル名を解釈する。不明な値は INFO
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case DEBUG:
		return DEBUG
	case WARN:
		return WARN
	case ERROR:
		return ERROR
	default:
		return INFO
	}
}

type Config struct {
	Level  Level
	JSON   bool
	Output io.Writer
}

var logger atomic.Pointer[charmlog.Logger]

func init() {
	Configure(Config{Level: INFO, Output: os.Stdout})
}

// Configure はロガーを差し替える
func Configure(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           cfg.Level.toCharm(),
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetStyles(defaultStyles())
	}
	logger.Store(l)
}

func SetLevel(level Level) {
	logger.Load().SetLevel(level.toCharm())
}

func IsDebug() bool {
	return logger.Load().GetLevel() <= charmlog.DebugLevel
}

func D(format string, args ...any) {
	logger.Load().Debug(sprintf(format, args...))
}

func I(format string, args ...any) {
	logger.Load().Info(sprintf(format, args...))
}

func W(format string, args ...any) {
	logger.Load().Warn(sprintf(format, args...))
}

func E(format string, args ...any) {
	logger.Load().Error(sprintf(format, args...))
}

// 引数が無ければ書式として解釈しない
func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func defaultStyles() *charmlog.Styles {
	styles := charmlog.DefaultStyles()
	styles.Levels[charmlog.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBU").
		Foreground(lipgloss.Color("#888888"))
	styles.Levels[charmlog.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#4ECDC4")).
		Bold(true)
	styles.Levels[charmlog.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFD93D")).
		Bold(true)
	styles.Levels[charmlog.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERRO").
		Foreground(lipgloss.Color("#FF6B6B")).
		Bold(true)
	return styles
}
