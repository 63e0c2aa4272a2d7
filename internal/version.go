package internal

import (
	"fmt"
	"io"
	"runtime"
)

// Version is set at build time, e.g. -ldflags "-X github.com/stuyutils/schoolday/internal.version=v1.0.0".
var Version = BuildVersion{Version: version, Commit: commit}

var (
	version = "dev"
	commit  = ""
)

// BuildVersion describes the release a binary was built from.
type BuildVersion struct {
	Version string
	Commit  string
}

// Print writes the version information of the named project to w.
func (v BuildVersion) Print(w io.Writer, project string) {
	_, _ = fmt.Fprintf(w, "%s version: %s\n\n", project, v.Version)
	_, _ = fmt.Fprintln(w, "Build information:")
	_, _ = fmt.Fprintf(w, "  Go version: %s (%s, %s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if v.Commit != "" {
		_, _ = fmt.Fprintln(w, "  Git commit:", v.Commit)
	}
}
