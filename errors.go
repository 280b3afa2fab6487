package lexgraph

import "errors"

var (
	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("lexgraph: invalid configuration")

	// ErrNoSources is returned when a corpus build is requested without
	// any law sources to load.
	ErrNoSources = errors.New("lexgraph: no sources given")

	// ErrCorpusNotFound is returned when a persisted corpus file does not
	// exist where expected.
	ErrCorpusNotFound = errors.New("lexgraph: corpus file not found")
)
