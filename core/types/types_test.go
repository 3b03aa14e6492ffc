package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueIDFallbacks(t *testing.T) {
	assert.Equal(t, "t-1", (&Type{ID: "t-1", Name: "server_traf"}).UniqueID())
	assert.Equal(t, "server_traf", (&Type{Name: "server_traf"}).UniqueID())

	assert.Equal(t, "server:web-1", (&Target{Kind: "server", Name: "web-1"}).UniqueID())
	var none *Target
	assert.Equal(t, "", none.UniqueID())

	assert.Equal(t, "acme", (&Customer{Login: "acme"}).UniqueID())
}

func TestEquals(t *testing.T) {
	assert.True(t, (&Type{ID: "a", Name: "x"}).Equals(&Type{ID: "a"}))
	assert.False(t, (&Target{ID: "1"}).Equals(&Target{ID: "2"}))

	var none *Target
	assert.True(t, none.Equals(nil))
	assert.True(t, (&Customer{ID: "c"}).Equals(&Customer{ID: "c", Login: "other"}))
}
