package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trapmap/pkg/trapmap"
)

// newLogger creates a logger writing to w at level, with "15:04:05.00"
// timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one operation. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs the formatted message with the elapsed time appended.
func (p *progress) done(format string, args ...any) {
	p.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), time.Since(p.start).Round(time.Millisecond))
}

// built reports a finished map build of total segments. A build the budget
// cut short is also logged as a warning with the inserted count.
func (p *progress) built(m *trapmap.Map, total int, completed bool) {
	p.done("Built map: %d regions, %d nodes", m.LeafCount(), m.NodeCount())
	if !completed {
		p.logger.Warn("budget exhausted", "inserted", len(m.Segments()), "segments", total)
	}
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. Commands pick it up with loggerFromContext and
// hand it to the map through pipeline.Options.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
