package version_test

import (
	"strings"
	"testing"

	"github.com/edumarques81/stellar-artbridge/internal/infra/cache"
	"github.com/edumarques81/stellar-artbridge/internal/version"
)

func TestGetInfo(t *testing.T) {
	info := version.GetInfo()

	if info.Name != "Artbridge" || info.Version == "" {
		t.Errorf("unexpected identity %q %q", info.Name, info.Version)
	}
	if info.CacheSchema != cache.CurrentSchemaVersion {
		t.Errorf("CacheSchema = %q, want %q", info.CacheSchema, cache.CurrentSchemaVersion)
	}

	want := "thumbnail,embedded,folder"
	if got := strings.Join(info.Strategies, ","); got != want {
		t.Errorf("Strategies = %q, want %q", got, want)
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		commit string
		want   string
	}{
		{"", "dev"},
		{"abc", "abc"},
		{"3d75831295e8abcdef", "3d75831"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := (version.Info{GitCommit: tt.commit}).Short(); got != tt.want {
				t.Errorf("Short() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	info := version.Info{
		Name:        "Artbridge",
		Version:     "1.2.3",
		CacheSchema: "1",
		Strategies:  []string{"thumbnail", "folder"},
		BuildTime:   "2026-01-02T15:04:05Z",
		GitCommit:   "3d75831295e8abcdef",
	}

	want := "Artbridge v1.2.3 (3d75831) schema 1 [thumbnail>folder] built 2026-01-02T15:04:05Z"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	bare := version.Info{Name: "Artbridge", Version: "1.2.3"}
	if got := bare.String(); got != "Artbridge v1.2.3 (dev)" {
		t.Errorf("String() without build info = %q", got)
	}
}
