package console

import (
	"fmt"
	"time"

	"kimp/internal/application/port"
)

type Sink struct{}

func NewSink() port.Sink { return &Sink{} }

func (s *Sink) WriteLive(line string) error {
	fmt.Print(line) // no newline
	return nil
}

func (s *Sink) WriteSnapshot(ts time.Time, lines []string) error {
	fmt.Print("\n")
	fmt.Printf("%s ranking (%d assets)\n", ts.Format("2006-01-02 15:04:05"), len(lines))
	for _, line := range lines {
		fmt.Println(line)
	}
	fmt.Print("\n")
	return nil
}

func (s *Sink) NewLine() error {
	fmt.Print("\n")
	return nil
}
