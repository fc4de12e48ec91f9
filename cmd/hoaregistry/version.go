package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/nao1215/hoaregistry/internal/config"
	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// shortRevision is the number of commit hash characters shown.
const shortRevision = 7

// buildDetails describes the running binary.
type buildDetails struct {
	Version   string
	Commit    string
	Modified  bool
	Date      string
	GoVersion string
	Platform  string
}

// readBuildDetails collects build details for the running binary.
func readBuildDetails() buildDetails {
	info, _ := debug.ReadBuildInfo()
	return buildDetailsFrom(info)
}

// buildDetailsFrom merges ldflags values with info, which may be nil.
// ldflags win; fields neither source provides fall back to "(devel)" for
// the version and "unknown" elsewhere.
func buildDetailsFrom(info *debug.BuildInfo) buildDetails {
	d := buildDetails{
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if info != nil {
		if d.Version == "" && info.Main.Version != "" {
			d.Version = info.Main.Version
		}
		if info.GoVersion != "" {
			d.GoVersion = info.GoVersion
		}
		vcs := make(map[string]string, len(info.Settings))
		for _, s := range info.Settings {
			vcs[s.Key] = s.Value
		}
		if d.Commit == "" {
			d.Commit = vcs["vcs.revision"]
			d.Modified = vcs["vcs.modified"] == "true"
		}
		if d.Date == "" {
			d.Date = vcs["vcs.time"]
		}
	}

	if len(d.Commit) > shortRevision {
		d.Commit = d.Commit[:shortRevision]
	}
	if d.Version == "" {
		d.Version = "(devel)"
	}
	if d.Commit == "" {
		d.Commit = "unknown"
	}
	if d.Date == "" {
		d.Date = "unknown"
	}
	return d
}

// write prints the details followed by the registry endpoint the binary
// queries by default.
func (d buildDetails) write(w io.Writer) {
	rev := d.Commit
	if d.Modified {
		rev += " (modified)"
	}
	fmt.Fprintf(w, "hoaregistry %s\n", d.Version)
	fmt.Fprintf(w, "  commit:   %s\n", rev)
	fmt.Fprintf(w, "  built:    %s\n", d.Date)
	fmt.Fprintf(w, "  go:       %s %s\n", d.GoVersion, d.Platform)
	fmt.Fprintf(w, "  registry: %s\n", config.DefaultEndpoint)
}

// getVersion returns the version shown by --version.
func getVersion() string {
	return readBuildDetails().Version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Long: `Print the hoaregistry release, the commit and toolchain it was built from,
and the Utah HOA registry endpoint it queries by default.

Use --short to print only the release, for scripts that compare versions.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			d := readBuildDetails()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), d.Version)
				return
			}
			d.write(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the release version")
	return cmd
}
