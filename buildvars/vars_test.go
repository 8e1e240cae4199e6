package buildvars

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionOrDefault(t *testing.T) {
	saved := Version
	t.Cleanup(func() { Version = saved })

	Version = ""
	assert.Equal(t, "dev", VersionOrDefault("dev"))
	Version = "1.2.3"
	assert.Equal(t, "1.2.3", VersionOrDefault("dev"))
}

func TestShortGitID(t *testing.T) {
	saved := GitID
	t.Cleanup(func() { GitID = saved })

	GitID = "0123456789abcdef0123"
	assert.Equal(t, "0123456789ab", ShortGitID())
	GitID = "abc"
	assert.Equal(t, "abc", ShortGitID())
	GitID = ""
	assert.NotEmpty(t, ShortGitID())
}

func TestHost(t *testing.T) {
	saved := BuildHost
	t.Cleanup(func() { BuildHost = saved })

	BuildHost = "builder"
	assert.Equal(t, "builder", Host())
	BuildHost = ""
	assert.NotEmpty(t, Host())
}
