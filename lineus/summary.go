package lineus

import (
	"fmt"
	"time"
)

// A Nack is a command the plotter answered with something other than
// the acknowledgement token.
type Nack struct {
	Line     int    // line number in the program file
	Command  string // the command sent
	Response string // what the plotter said
}

// Summary describes one transmission run. It is produced whether or not
// the run completed.
type Summary struct {
	RunID        string
	Addr         string
	Total        int // commands in the program
	Sent         int // commands written to the connection in full
	Acknowledged int // commands answered with the acknowledgement token
	Nacks        []Nack
	State        State // client state at the end of the run
	Elapsed      time.Duration
}

// Complete reports whether every command was sent and acknowledged.
func (s *Summary) Complete() bool {
	return s.Sent == s.Total && s.Acknowledged == s.Total
}

func (s *Summary) String() string {
	return fmt.Sprintf("run %s: sent %d/%d commands, %d acknowledged, %d not acknowledged, %s after %s",
		s.RunID, s.Sent, s.Total, s.Acknowledged, len(s.Nacks), s.State, s.Elapsed.Round(time.Millisecond))
}
