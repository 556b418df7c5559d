package engine

// Config holds configuration for the render engine.
type Config struct {
	// QueueSize is the number of render requests that may wait behind
	// the gate before submission blocks.
	QueueSize int `mapstructure:"queue_size" default:"16"`
}

// queueSize returns the configured queue size with a sane floor.
func (c Config) queueSize() int {
	if c.QueueSize <= 0 {
		return 16
	}
	return c.QueueSize
}
