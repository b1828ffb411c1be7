package buildinfo

// Release builds inject these via ldflags; local builds leave them empty
// and version reporting falls back to module build info.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
