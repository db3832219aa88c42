package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// The REST API logs one JSON object per line to stdout: request lines
// from the HTTP middleware and audit events. No prefix, no flags; every
// caller supplies a complete object.

var (
	lineOnce sync.Once
	lines    *log.Logger
)

// Logger returns the process-wide line logger.
func Logger() *log.Logger {
	lineOnce.Do(func() {
		lines = log.New(os.Stdout, "", 0)
	})
	return lines
}

// LogRequest marshals the entry and emits it as one line. Entries that
// cannot be marshaled are dropped with an error line instead of a panic.
func LogRequest(entry map[string]any) {
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Printf(`{"level":"error","msg":"dropped unmarshalable log entry","error":%q}`, err.Error())
		return
	}
	Logger().Println(string(data))
}
