package transport

// State represents the observable state of a transport connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateCanceling
	StateSuspended
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateCanceling:
		return "Canceling"
	case StateSuspended:
		return "Suspended"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
