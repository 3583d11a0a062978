package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_String(t *testing.T) {
	assert.Equal(t, "recall dev", Info{}.String())
	assert.Equal(t,
		"recall v0.3.0 (abc123) built 2026-03-01 with go1.25.3",
		Info{Version: "v0.3.0", Commit: "abc123", BuildDate: "2026-03-01", GoVersion: "go1.25.3"}.String(),
	)
}
