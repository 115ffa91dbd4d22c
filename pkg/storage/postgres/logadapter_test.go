package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Debugln(v ...any) {
	r.lines = append(r.lines, fmt.Sprintln(v...))
}

func TestPgxLoggerSortsData(t *testing.T) {
	rec := &recordingLogger{}
	l := pgxLogger{logger: rec}

	l.Log(context.Background(), pgx.LogLevelInfo, "Query", map[string]any{"sql": "SELECT 1", "args": []any{}, "rowCount": 1})

	assert.Equal(t, []string{"postgres: info: Query args=[] rowCount=1 sql=SELECT 1\n"}, rec.lines)
}
