package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringStamped(t *testing.T) {
	old := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })

	Version, Commit, Date = "v1.2.0", "abc123", "2025-01-20"
	assert.Equal(t, "v1.2.0 (commit: abc123, built: 2025-01-20)", String())
}

func TestStringDev(t *testing.T) {
	assert.Contains(t, String(), " (commit: ")
}
