package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v4"
)

type pgxLogger struct {
	logger Logger
}

// Log logs pgx messages with their data fields sorted by key.
func (l *pgxLogger) Log(_ context.Context, level pgx.LogLevel, msg string, data map[string]any) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	logArgs := make([]any, 0, 2+len(data))
	logArgs = append(logArgs, "postgres:", level.String()+":", msg)

	for _, k := range keys {
		logArgs = append(logArgs, fmt.Sprintf("%s=%v", k, data[k]))
	}

	l.logger.Debugln(logArgs...)
}
