package consts

import "time"

// Probe timeouts
const (
	MergeProbeTimeout = 5 * time.Second
	MetadataTimeout   = 60 * time.Second
)

// Database
const (
	DatabaseTimeout = 5 * time.Second
)

// Retry configuration
const (
	DefaultRetries         = 3
	DefaultFragmentRetries = 3
	StoreFlushRetries      = 3
	StoreRetryBackoff      = 100 * time.Millisecond
)

// File operations
const (
	FileCheckInterval = 100 * time.Millisecond
	FileWaitTimeout   = 10 * time.Second
)
