package port

import "time"

type Sink interface {
	// Live line: overwrite last line (no newline)
	WriteLive(line string) error
	// Snapshot block: append a timestamped historical view
	WriteSnapshot(ts time.Time, lines []string) error
	// Normal newline (for logs)
	NewLine() error
}
