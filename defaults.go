package gothunker

// DefaultOptions returns the recommended set of options for a Stack used in
// production: panic recovery and dispatch ids. Additional defaults may be
// added in future versions.
func DefaultOptions() []Option {
	return []Option{
		WithRecovery(),
		WithDispatchID(),
	}
}

// DefaultConfig returns the default thunk configuration: record calling
// convention, thunk results returned directly.
func DefaultConfig() Config {
	return Config{}
}
