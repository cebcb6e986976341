package parameter

// Playback Dispatch
const (
	// DispatchQueueSize bounds interactions handed to the back end per cycle
	DispatchQueueSize = 30

	// EmitterPoolSize is the number of audio emitters cycled round-robin
	EmitterPoolSize = 50
)
