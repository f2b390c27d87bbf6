package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVersionInfo_LdflagsOverride(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer func() { version, commit, date = origV, origC, origD }()

	version, commit, date = "1.2.3", "abc123", "2026-01-02"
	v, c, d := resolveVersionInfo()
	assert.Equal(t, "1.2.3", v)
	assert.Equal(t, "abc123", c)
	assert.Equal(t, "2026-01-02", d)
}

func TestResolveVersionInfo_DevFallback(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer func() { version, commit, date = origV, origC, origD }()

	version, commit, date = "dev", "unknown", "unknown"
	v, _, _ := resolveVersionInfo()
	assert.NotEmpty(t, v)
}

func TestWriteVersionInfo_SplitsStreams(t *testing.T) {
	var out, decor bytes.Buffer
	writeVersionInfo(&out, &decor)

	assert.Regexp(t, `^ddms \S+ \(.*\) \w+/\w+\n$`, out.String())
	assert.Contains(t, decor.String(), asciiLogo)
}
