package app

// Config holds runtime configuration for one extraction run.
type Config struct {
	// InputPath points at a single report file or a directory of reports.
	InputPath string

	// Pattern table overrides; empty values use the extractor defaults.
	Channels   []string
	TotalLabel string
	PaidHeader string

	// Extension selects files in directory mode, e.g. ".pdf".
	Extension string

	// Report sinks; an empty path disables the sink.
	CSVPath  string
	XLSXPath string

	Verbose bool
}
