package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	dev := Info{CommitHash: "abcdef123456", BuildTime: "now", Version: "dev"}
	assert.Equal(t, "typereflect dev (commit abcdef123456, built now)", dev.String())

	tagged := Info{CommitHash: "abcdef123456", BuildTime: "now", Version: "v1.2.0"}
	assert.Equal(t, "typereflect v1.2.0 (commit abcdef123456, built now)", tagged.String())
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abcdef1", Info{CommitHash: "abcdef123456"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.GoVersion)
	assert.True(t, strings.Contains(info.Platform, "/"))
}

func TestHeaderIsStable(t *testing.T) {
	assert.Equal(t, Header(), Header())
	assert.NotContains(t, Header(), BuildTime)
}
