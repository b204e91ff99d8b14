package namer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaim(t *testing.T) {
	r := New()

	name, fresh := r.Claim("x")
	assert.Equal(t, "x", name)
	assert.True(t, fresh)

	t.Run("duplicates get numeric suffixes", func(t *testing.T) {
		second, fresh := r.Claim("x")
		assert.Equal(t, "x_2", second)
		assert.False(t, fresh)

		third, fresh := r.Claim("x")
		assert.Equal(t, "x_3", third)
		assert.False(t, fresh)
	})

	t.Run("suffix skips names taken explicitly", func(t *testing.T) {
		r := New()
		_, _ = r.Claim("y")
		_, _ = r.Claim("y_2")
		got, fresh := r.Claim("y")
		assert.Equal(t, "y_3", got)
		assert.False(t, fresh)
	})

	t.Run("registries are independent", func(t *testing.T) {
		other := New()
		name, fresh := other.Claim("x")
		assert.Equal(t, "x", name)
		assert.True(t, fresh)
	})
}

func TestNext(t *testing.T) {
	r := New()

	assert.Equal(t, "con_1", r.Next("con"))
	assert.Equal(t, "con_2", r.Next("con"))
	assert.Equal(t, "var_1", r.Next("var"))

	t.Run("generated names cannot be claimed", func(t *testing.T) {
		got, fresh := r.Claim("con_1")
		assert.Equal(t, "con_1_2", got)
		assert.False(t, fresh)
	})

	t.Run("generation skips claimed names", func(t *testing.T) {
		r := New()
		_, _ = r.Claim("obj_1")
		assert.Equal(t, "obj_2", r.Next("obj"))
	})

	t.Run("empty prefix falls back", func(t *testing.T) {
		r := New()
		assert.Equal(t, "o_1", r.Next(""))
	})
}

func TestSequence(t *testing.T) {
	r := New()
	require.Equal(t, 1, r.Sequence())
	require.Equal(t, 2, r.Sequence())
}

func TestKnown(t *testing.T) {
	r := New()
	assert.False(t, r.Known("x"))
	_, _ = r.Claim("x")
	assert.True(t, r.Known("x"))
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "x_1__a__", SafeName("x[1,'a']"))
	assert.Equal(t, "plain", SafeName("plain"))
}
