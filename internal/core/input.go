package core

// Action is a semantic input, independent of the key that produced it.
type Action uint8

const (
	ActionNone    Action = iota
	ActionThrust         // Space, W, Up
	ActionPause          // P, Escape - toggles pause
	ActionRestart        // R - new session with a fresh seed
	ActionQuit           // Q, Ctrl+C
)

var actionNames = [...]string{
	ActionNone:    "None",
	ActionThrust:  "Thrust",
	ActionPause:   "Pause",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "Unknown"
}

// InputFrame is the set of actions triggered during one frame.
// The zero value is empty and frames are compared with ==.
type InputFrame struct {
	bits uint16
}

// NewInputFrame returns an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

func (a Action) bit() uint16 {
	if a == ActionNone || int(a) >= 16 {
		return 0
	}
	return 1 << a
}

// Set marks a as triggered.
func (f *InputFrame) Set(a Action) {
	f.bits |= a.bit()
}

// Has reports whether a was triggered.
func (f InputFrame) Has(a Action) bool {
	b := a.bit()
	return b != 0 && f.bits&b != 0
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return f.bits == 0
}

// Clear removes all actions.
func (f *InputFrame) Clear() {
	f.bits = 0
}
