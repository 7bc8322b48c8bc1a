package cmd

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		args    []string
		want    []string
	}{
		{
			name:    "release",
			version: "1.2.3",
			args:    []string{"version"},
			want:    []string{"lifecycler version 1.2.3"},
		},
		{
			name:    "unset version still prints the banner",
			version: "",
			args:    []string{"version"},
			want:    []string{"lifecycler version "},
		},
		{
			name:    "verbose adds the toolchain",
			version: "2.0.0",
			args:    []string{"version", "--verbose"},
			want:    []string{"lifecycler version 2.0.0", "go version " + runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := rootCmd.Version
			defer func() {
				rootCmd.Version = original
				versionVerbose = false
			}()
			rootCmd.Version = tt.version

			stdout, _, err := executeRoot(t, tt.args...)

			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.Split(strings.TrimSuffix(stdout, "\n"), "\n"))
		})
	}
}

func TestVersion_RejectsArguments(t *testing.T) {
	stdout, _, err := executeRoot(t, "version", "--unknown")

	assert.Error(t, err)
	assert.Empty(t, stdout)
}
