package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	at := time.Date(2021, 6, 30, 23, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	c := NewFixed(at)

	assert.True(t, c.Now().Equal(at))
	assert.Equal(t, time.UTC, c.Now().Location())
}

func TestSystem(t *testing.T) {
	before := time.Now()
	now := NewSystem().Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, before, now, time.Second)
}
