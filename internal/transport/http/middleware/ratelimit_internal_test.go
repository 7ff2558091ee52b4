package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPBucketsEvictIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newIPBuckets(1, 1, time.Minute, func() time.Time { return now })

	a := b.get("10.0.0.1")
	b.get("10.0.0.2")
	assert.Equal(t, 2, b.len())
	assert.Same(t, a, b.get("10.0.0.1"), "bucket is reused while active")

	now = now.Add(30 * time.Second)
	b.get("10.0.0.1")
	now = now.Add(40 * time.Second)
	b.get("10.0.0.3")

	assert.Equal(t, 2, b.len(), "10.0.0.2 idled out, 10.0.0.1 was seen recently")

	now = now.Add(2 * time.Minute)
	assert.NotSame(t, a, b.get("10.0.0.1"), "an evicted client starts with a fresh bucket")
	assert.Equal(t, 1, b.len())
}
