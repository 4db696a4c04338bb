package main

// Build metadata, overridden via ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
