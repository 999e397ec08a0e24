package logging

// Component names attached to log records.
const (
	ComponentCLI      = "cli"
	ComponentServer   = "server"
	ComponentSequence = "sequence"
	ComponentConfig   = "config"
	ComponentSheet    = "sheet"
)
