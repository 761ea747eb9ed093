package core

// RuntimeConfig contains configuration passed to the game at initialization.
// Dimensions are in pixels: the terminal frontend maps one cell to two
// vertically stacked pixels, the window frontend maps them 1:1.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in pixels
	ScreenH  int   // Screen height in pixels
	TickRate int   // Target frames per second (default 60)
	Seed     int64 // RNG seed for deterministic obstacle heights
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  48,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Frame is everything the simulation consumes for one frame.
type Frame struct {
	DT    float64    // Elapsed time since the previous frame, in seconds
	Input InputFrame // Discrete input events for this frame
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Frames       int     // Frames simulated since the last reset
	Elapsed      float64 // Simulated seconds since the last reset
	Position     Vec2    // Character position (top-left anchor)
	FloorContact bool    // Character touches or passes the ground line
	Obstacles    int     // Live obstacle count (always even)
	Paused       bool    // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulated frame.
type StepResult struct {
	State GameState
}
