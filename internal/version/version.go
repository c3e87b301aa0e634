// Package version describes the running Artbridge build: release, cache
// layout and the artwork strategies it tries.
package version

import (
	"fmt"
	"strings"

	"github.com/edumarques81/stellar-artbridge/internal/domain/artwork"
	"github.com/edumarques81/stellar-artbridge/internal/infra/cache"
)

// Set at build time with -ldflags "-X .../internal/version.Version=..."
var (
	Name      = "Artbridge"
	Version   = "0.1.0"
	BuildTime = ""
	GitCommit = ""
)

// Strategies lists the resolution strategies in the order they are tried.
var Strategies = []artwork.Source{
	artwork.SourceThumbnail,
	artwork.SourceEmbedded,
	artwork.SourceFolder,
}

// Info is reported by the version command and /api/v1/version. Clients
// compare CacheSchema before reading the ledger database directly.
type Info struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	CacheSchema string   `json:"cacheSchema"`
	Strategies  []string `json:"strategies"`
	BuildTime   string   `json:"buildTime,omitempty"`
	GitCommit   string   `json:"gitCommit,omitempty"`
}

// GetInfo returns the current build information.
func GetInfo() Info {
	strategies := make([]string, len(Strategies))
	for i, s := range Strategies {
		strategies[i] = string(s)
	}
	return Info{
		Name:        Name,
		Version:     Version,
		CacheSchema: cache.CurrentSchemaVersion,
		Strategies:  strategies,
		BuildTime:   BuildTime,
		GitCommit:   GitCommit,
	}
}

// Short returns the commit abbreviated to seven characters, or "dev".
func (i Info) Short() string {
	if i.GitCommit == "" {
		return "dev"
	}
	return i.GitCommit[:min(7, len(i.GitCommit))]
}

// String formats the info on one line, e.g.
// "Artbridge v0.1.0 (3d75831) schema 1 [thumbnail>embedded>folder] built 2026-01-02T15:04:05Z".
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s v%s (%s)", i.Name, i.Version, i.Short())
	if i.CacheSchema != "" {
		fmt.Fprintf(&b, " schema %s", i.CacheSchema)
	}
	if len(i.Strategies) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(i.Strategies, ">"))
	}
	if i.BuildTime != "" {
		fmt.Fprintf(&b, " built %s", i.BuildTime)
	}
	return b.String()
}
