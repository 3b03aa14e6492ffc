package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := Semantics("invalid discount value: %s", "abc")
	assert.Equal(t, "[SEMANTICS_ERROR] invalid discount value: abc", err.Error())

	wrapped := Parsing("failed to parse plan", fmt.Errorf("line 3"))
	assert.Equal(t, "[PARSING_ERROR] failed to parse plan: line 3", wrapped.Error())
}

func TestIsTypeFollowsWrapChain(t *testing.T) {
	inner := Invariant("cannot reassign bill id")
	outer := fmt.Errorf("finalize bill: %w", inner)

	assert.True(t, IsType(outer, TypeInvariant))
	assert.False(t, IsType(outer, TypeSemantics))
	assert.False(t, IsType(fmt.Errorf("plain"), TypeInvariant))
}

func TestWithContext(t *testing.T) {
	err := NotFound("price", "p-1").WithContext("plan", "basic")
	assert.Equal(t, "basic", err.Context["plan"])
	assert.True(t, IsType(err, TypeNotFound))
}
