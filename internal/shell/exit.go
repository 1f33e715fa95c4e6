package shell

import "sync"

// ExitFlag flips from unset to set exactly once and is never cleared.
type ExitFlag struct {
	once sync.Once
	done chan struct{}
}

// NewExitFlag returns an unset flag.
func NewExitFlag() *ExitFlag {
	return &ExitFlag{done: make(chan struct{})}
}

// Set marks the flag. Later calls are no-ops.
func (f *ExitFlag) Set() {
	f.once.Do(func() { close(f.done) })
}

// IsSet reports whether Set has been called.
func (f *ExitFlag) IsSet() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done is closed when the flag is set.
func (f *ExitFlag) Done() <-chan struct{} {
	return f.done
}
