package log

import "testing"

// TestLogOutput forwards log messages to the logger of a testcase.
type TestLogOutput struct {
	t *testing.T
}

// NewTestLogOutput returns an Output that writes to t.Log.
func NewTestLogOutput(t *testing.T) *TestLogOutput {
	return &TestLogOutput{t: t}
}

func (l *TestLogOutput) Printf(format string, v ...any) {
	l.t.Helper()
	l.t.Logf(format, v...)
}

func (l *TestLogOutput) Println(v ...any) {
	l.t.Helper()
	l.t.Log(v...)
}

func (l *TestLogOutput) Fatalf(format string, v ...any) {
	l.t.Helper()
	l.t.Fatalf(format, v...)
}

func (l *TestLogOutput) Fatalln(v ...any) {
	l.t.Helper()
	l.t.Fatal(v...)
}

// RedirectToTestingLog redirects the output of StdLogger to t.Log and enables
// debug messages while the testcase runs.
// The previous output and debug setting are restored on cleanup.
func RedirectToTestingLog(t *testing.T) {
	oldOutput := StdLogger.GetOutput()
	oldDebugEnabled := StdLogger.DebugEnabled()

	StdLogger.SetOutput(NewTestLogOutput(t))
	StdLogger.EnableDebug(true)

	t.Cleanup(func() {
		StdLogger.SetOutput(oldOutput)
		StdLogger.EnableDebug(oldDebugEnabled)
	})
}
