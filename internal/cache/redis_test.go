package cache

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseKeyIsOrderIndependent(t *testing.T) {
	a := url.Values{}
	a.Set("min_temp", "20")
	a.Set("limit", "50")

	b := url.Values{}
	b.Set("limit", "50")
	b.Set("min_temp", "20")

	assert.Equal(t, ResponseKey("/api/observations", a), ResponseKey("/api/observations", b))
	assert.Equal(t, "wq:/api/observations?limit=50&min_temp=20", ResponseKey("/api/observations", a))
	assert.NotEqual(t, ResponseKey("/api/stats", a), ResponseKey("/api/observations", a))
}

func TestResponseKeyEmptyQuery(t *testing.T) {
	assert.Equal(t, "wq:/api/stats?", ResponseKey("/api/stats", nil))
}
