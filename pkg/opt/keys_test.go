package opt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	cases := []struct {
		name string
		keys []Key
		want string
	}{
		{name: "int", keys: []Key{3}, want: "3"},
		{name: "string is quoted", keys: []Key{"east"}, want: "'east'"},
		{name: "mixed tuple", keys: []Key{0, "a"}, want: "0,'a'"},
		{name: "float", keys: []Key{1.5}, want: "1.5"},
		{name: "whole float renders bare", keys: []Key{2.0}, want: "2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KeyString(tc.keys...))
		})
	}

	t.Run("iterator renders by binder name", func(t *testing.T) {
		i := NewSet("S").Iter("i")
		assert.Equal(t, "i,'a'", KeyString(i, "a"))
	})

	t.Run("same tuple always renders the same", func(t *testing.T) {
		keys := []Key{1, "x", 2.5}
		first := KeyString(keys...)
		for n := 0; n < 5; n++ {
			assert.Equal(t, first, KeyString(keys...))
		}
	})
}

func TestExpandIndexSource(t *testing.T) {
	t.Run("int expands to a zero-based range", func(t *testing.T) {
		keys, set, err := expandIndexSource(3)
		require.NoError(t, err)
		assert.Nil(t, set)
		if diff := cmp.Diff([]Key{0, 1, 2}, keys); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("string slice keeps order", func(t *testing.T) {
		keys, _, err := expandIndexSource([]string{"b", "a"})
		require.NoError(t, err)
		if diff := cmp.Diff([]Key{"b", "a"}, keys); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("set yields no concrete keys", func(t *testing.T) {
		s := NewSet("S")
		keys, set, err := expandIndexSource(s)
		require.NoError(t, err)
		assert.Nil(t, keys)
		assert.Same(t, s, set)
	})

	t.Run("negative size refuses", func(t *testing.T) {
		_, _, err := expandIndexSource(-1)
		require.Error(t, err)
	})

	t.Run("unsupported type refuses", func(t *testing.T) {
		_, _, err := expandIndexSource(struct{}{})
		require.Error(t, err)
	})
}

func TestCartesianOrder(t *testing.T) {
	var got []string
	cartesian([][]Key{{0, 1}, {"a", "b"}}, func(keys []Key) {
		got = append(got, KeyString(keys...))
	})
	want := []string{"0,'a'", "0,'b'", "1,'a'", "1,'b'"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("enumeration order mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexSourceLabel(t *testing.T) {
	assert.Equal(t, "0..2", indexSourceLabel([]Key{0, 1, 2}))
	assert.Equal(t, "5..7", indexSourceLabel([]Key{5, 6, 7}))
	assert.Equal(t, "{0,2}", indexSourceLabel([]Key{0, 2}))
	assert.Equal(t, "{'a','b'}", indexSourceLabel([]Key{"a", "b"}))
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in     float64
		digits int
		want   string
	}{
		{in: 5, digits: 12, want: "5"},
		{in: -3, digits: 12, want: "-3"},
		{in: 1.5, digits: 12, want: "1.5"},
		{in: 1.0 / 3.0, digits: 6, want: "0.333333"},
		{in: 1e20, digits: 12, want: "1e+20"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatNumber(tc.in, tc.digits))
	}
}
