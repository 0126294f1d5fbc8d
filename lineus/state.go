package lineus

import "fmt"

// State is where a Client is in its session with the plotter.
type State int

// Sessions go Disconnected → Connected → Greeted → Streaming → Closed.
// Failed is terminal and can be reached from any state before Closed.
const (
	Disconnected State = iota
	Connected
	Greeted
	Streaming
	Closed
	Failed
)

var stateNames = [...]string{
	Disconnected: "disconnected",
	Connected:    "connected",
	Greeted:      "greeted",
	Streaming:    "streaming",
	Closed:       "closed",
	Failed:       "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}
