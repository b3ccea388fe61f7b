package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/notion-cli/internal/buildinfo"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestCurrentVersionInfoFromBuildInfo(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main:      debug.Module{Path: "github.com/aidanlsb/notion-cli", Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-09-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "GOOS", Value: "windows"},
			{Key: "GOARCH", Value: "amd64"},
		},
	})

	info := currentVersionInfo()

	assert.Equal(t, "v0.4.0", info.Version)
	assert.Equal(t, "github.com/aidanlsb/notion-cli", info.ModulePath)
	assert.Equal(t, "abc123", info.Commit)
	assert.Equal(t, "2026-09-01T10:00:00Z", info.CommitTime)
	assert.True(t, info.Modified)
	assert.Equal(t, "go1.23.4", info.GoVersion)
	assert.Equal(t, "windows", info.GOOS)
	assert.Equal(t, "amd64", info.GOARCH)
}

func TestCurrentVersionInfoFallsBackToLdflags(t *testing.T) {
	stubBuildInfo(t, nil)
	prevVersion, prevCommit := buildinfo.Version, buildinfo.Commit
	t.Cleanup(func() { buildinfo.Version, buildinfo.Commit = prevVersion, prevCommit })
	buildinfo.Version = "v1.0.0"
	buildinfo.Commit = "feedface"

	info := currentVersionInfo()

	assert.Equal(t, "v1.0.0", info.Version)
	assert.Equal(t, "feedface", info.Commit)
	assert.Equal(t, defaultModulePath, info.ModulePath)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.GOOS)
	assert.Equal(t, runtime.GOARCH, info.GOARCH)
}

func TestVersionCommandJSON(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/aidanlsb/notion-cli", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "GOOS", Value: "darwin"},
			{Key: "GOARCH", Value: "arm64"},
		},
	})

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"version", "--json", "--config", t.TempDir() + "/config.toml"}, &stdout, &stderr)
	require.Equal(t, ExitOK, code, stderr.String())

	var got versionInfo
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "devel", got.Version)
	assert.Equal(t, "deadbeef", got.Commit)
	assert.Equal(t, "darwin", got.GOOS)
	assert.Equal(t, "arm64", got.GOARCH)
}

func TestVersionCommandText(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v0.2.0"}})

	var stdout bytes.Buffer
	require.NoError(t, printVersion(&stdout, currentVersionInfo()))

	assert.Contains(t, stdout.String(), "notion-cli v0.2.0\n")
	assert.Contains(t, stdout.String(), "module:")
	assert.NotContains(t, stdout.String(), "commit:")
}
