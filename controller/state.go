package controller

// Phase is where the session stands in its handshake with the Controller
// Service. There is no closed phase; Shutdown ends the session outright.
type Phase int32

const (
	PhaseUninitialized Phase = iota
	// PhaseInitializing is entered when Initialize is called and kept if the
	// Controller Service rejects it.
	PhaseInitializing
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitializing:
		return "initializing"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}
