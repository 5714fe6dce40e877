// Package gshade loads material descriptions and turns them into GLSL programs
// assembled by package assemble. Programs are memoized per description by [Cache]
// and rebuilt when their material file changes by [Watcher].
package gshade

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var defaultLogger = sync.OnceValue(func() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "gshade",
	})
})

// Logger returns the logger used when a [CacheConfig] or [WatcherConfig] has none.
// Its level may be changed by callers.
func Logger() *log.Logger { return defaultLogger() }

func loggerOr(l *log.Logger) *log.Logger {
	if l == nil {
		return Logger()
	}
	return l
}
