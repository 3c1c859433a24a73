package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotZero(t, info.BuildTime)

	assert.Contains(t, info.String(), "slate tabular data library")
	assert.Contains(t, info.String(), "Version:")
	assert.Contains(t, info.String(), "Go Version:")
}

func TestBuildInfoString(t *testing.T) {
	info := BuildInfo{
		Version:   "v1.0.0",
		BuildDate: "2024-01-01T00:00:00Z",
		GitCommit: "abc123def456",
		GoVersion: "go1.24.0",
		BuildTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Dirty:     false,
	}

	str := info.String()
	assert.Contains(t, str, "slate tabular data library")
	assert.Contains(t, str, "Version: v1.0.0")
	assert.Contains(t, str, "Build Date: 2024-01-01T00:00:00Z")
	assert.Contains(t, str, "Git Commit: abc123d") // Should be truncated
	assert.Contains(t, str, "Go Version: go1.24.0")
}

func TestBuildInfoStringDirty(t *testing.T) {
	info := BuildInfo{
		Version:   "v1.0.0",
		GitCommit: "abc123-dirty",
		Dirty:     true,
	}

	str := info.String()
	assert.Contains(t, str, "Version: v1.0.0")
	assert.Contains(t, str, "(dirty)")
}

func TestUserAgent(t *testing.T) {
	originalVersion := Version
	defer func() { Version = originalVersion }()

	Version = "v1.0.0"
	assert.Equal(t, "slate/v1.0.0", UserAgent())

	Version = "dev"
	assert.Equal(t, "slate/dev", UserAgent())
}

func TestIsRelease(t *testing.T) {
	originalVersion := Version
	defer func() { Version = originalVersion }()

	tests := []struct {
		version  string
		expected bool
	}{
		{"v1.0.0", true},
		{"1.0.0", true},
		{"dev", false},
		{"v1.0.0-alpha.1", false},
		{"v1.0.0-rc.1", false},
		{"v1.0.0-dirty", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			assert.Equal(t, tt.expected, IsRelease())
		})
	}
}

func TestModuleDependencies(t *testing.T) {
	info := Info()

	assert.NotNil(t, info.Main)

	t.Logf("Main module: %s", info.Main.Path)
	t.Logf("Number of dependencies: %d", len(info.Deps))
}
