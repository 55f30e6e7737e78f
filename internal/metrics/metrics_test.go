package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		IncSync("create", "success")
		IncRetry("sync")
		ObserveDuration("sync", 120*time.Millisecond)
	})
}
