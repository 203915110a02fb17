package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestInfo_Defaults(t *testing.T) {
	is := is.New(t)

	info := Info()
	is.True(strings.HasPrefix(info, "charlie version dev"))
	is.True(strings.Contains(info, "commit: unknown"))
	is.True(strings.Contains(info, runtime.Version()))
}

func TestInfo_StampedValues(t *testing.T) {
	is := is.New(t)

	defer func(v, c, b string) { Version, GitCommit, BuildTime = v, c, b }(Version, GitCommit, BuildTime)
	Version = "v1.2.0"
	GitCommit = "abc123"
	BuildTime = "2026-08-28T00:00:00Z"

	info := Info()
	is.True(strings.Contains(info, "v1.2.0"))
	is.True(strings.Contains(info, "abc123"))
	is.True(strings.Contains(info, "2026-08-28T00:00:00Z"))
}
