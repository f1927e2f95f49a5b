package inventory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_Value(t *testing.T) {
	value, err := StringList{"hammer", "wrench"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["hammer","wrench"]`, value)

	// nil serializes as an empty array, never NULL
	value, err = StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestStringList_Scan(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan(`["hammer","wrench"]`))
	assert.Equal(t, StringList{"hammer", "wrench"}, list)

	var fromBytes StringList
	require.NoError(t, fromBytes.Scan([]byte(`["a"]`)))
	assert.Equal(t, StringList{"a"}, fromBytes)

	var fromNil StringList
	require.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, StringList{}, fromNil)

	var fromEmpty StringList
	require.NoError(t, fromEmpty.Scan(""))
	assert.Equal(t, StringList{}, fromEmpty)

	var bad StringList
	assert.Error(t, bad.Scan(42))
}

func TestNewShortCode(t *testing.T) {
	code := NewShortCode()
	assert.True(t, strings.HasPrefix(code, "BH-"))
	assert.Len(t, code, 9)
	assert.Equal(t, strings.ToUpper(code), code)

	// practically unique
	assert.NotEqual(t, code, NewShortCode())
}

func TestBin_HasItem(t *testing.T) {
	bin := Bin{Items: StringList{"Hammer", "wrench"}}
	assert.True(t, bin.HasItem("hammer"))
	assert.True(t, bin.HasItem("WRENCH"))
	assert.False(t, bin.HasItem("pliers"))
}

func TestBin_HasTag(t *testing.T) {
	bin := Bin{Tags: StringList{"Workshop"}}
	assert.True(t, bin.HasTag("workshop"))
	assert.False(t, bin.HasTag("seasonal"))
}
