package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProcessResult_Duration(t *testing.T) {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	r := ProcessResult{
		StartedAt: start,
		EndedAt:   start.Add(42 * time.Second),
	}

	assert.Equal(t, 42*time.Second, r.Duration())
}
