package botstrap

import _ "embed"

// Version is the release version of botstrap.
//
//go:embed VERSION
var Version string
