package automation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeArgs_KeepsNumbers(t *testing.T) {
	args, err := decodeArgs(json.RawMessage(`{"v": 12345678901, "md": 3}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("12345678901"), args["v"])

	empty, err := decodeArgs(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = decodeArgs(json.RawMessage(`[1,2]`))
	assert.Error(t, err)
}

func TestArgs_LongNameWins(t *testing.T) {
	args := Args{"session_id": "long", "sid": "short"}
	id, err := args.sessionID()
	require.NoError(t, err)
	assert.Equal(t, "long", id)

	id, err = Args{"sid": "short"}.sessionID()
	require.NoError(t, err)
	assert.Equal(t, "short", id)

	_, err = Args{}.sessionID()
	assert.EqualError(t, err, "missing required field: session_id")
}

func TestArgs_RequiredString(t *testing.T) {
	v, err := Args{"v": json.Number("42")}.requiredString("value", "v")
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	v, err = Args{"value": true}.requiredString("value", "v")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	_, err = Args{"value": []any{}}.requiredString("value", "v")
	assert.Error(t, err)
}

func TestArgs_OptionalStringIgnoresNonStrings(t *testing.T) {
	_, ok := Args{"t": json.Number("1")}.optionalString("text", "t")
	assert.False(t, ok)

	s, ok := Args{"t": "abc"}.optionalString("text", "t")
	assert.True(t, ok)
	assert.Equal(t, "abc", s)
}

func TestArgs_RequiredInt(t *testing.T) {
	n, err := Args{"v": json.Number("31")}.requiredInt("value", "v")
	require.NoError(t, err)
	assert.Equal(t, 31, n)

	n, err = Args{"v": " 7 "}.requiredInt("value", "v")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = Args{"v": json.Number("1.5")}.requiredInt("value", "v")
	assert.Error(t, err)
	_, err = Args{"v": json.Number("99999999999")}.requiredInt("value", "v")
	assert.Error(t, err)
}

func TestArgs_OptionalIndex(t *testing.T) {
	assert.Equal(t, 0, Args{}.optionalIndex(0, "index", "i"))
	assert.Equal(t, 3, Args{"i": json.Number("3")}.optionalIndex(0, "index", "i"))
	assert.Equal(t, 0, Args{"i": json.Number("-1")}.optionalIndex(0, "index", "i"))
	assert.Equal(t, 0, Args{"i": true}.optionalIndex(0, "index", "i"))
}

func TestArgs_Boolean(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{json.Number("1"), true},
		{json.Number("0"), false},
		{"yes", true},
		{"Y", true},
		{"no", false},
		{"FALSE", false},
	}
	for _, tt := range tests {
		got, err := Args{"b": tt.in}.boolean(!tt.want, "billable", "b")
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}

	_, err := Args{"b": "maybe"}.boolean(false, "billable", "b")
	assert.Error(t, err)

	got, err := Args{}.boolean(true, "billable", "b")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestArgs_ResponseOptions(t *testing.T) {
	opts, err := Args{}.responseOptions(ViewTiny)
	require.NoError(t, err)
	assert.Equal(t, responseOptions{view: ViewTiny, maxDays: 14, maxEntries: 20}, opts)

	opts, err = Args{"vw": "F", "stc": true, "md": json.Number("500"), "me": "3"}.responseOptions(ViewTiny)
	require.NoError(t, err)
	assert.Equal(t, responseOptions{structured: true, view: ViewFull, maxDays: 120, maxEntries: 3}, opts)

	_, err = Args{"md": json.Number("0")}.responseOptions(ViewTiny)
	assert.EqualError(t, err, "limits must be greater than 0")

	_, err = Args{"me": json.Number("-2")}.responseOptions(ViewTiny)
	assert.EqualError(t, err, "limits must be positive integers")

	_, err = Args{"view": "huge"}.responseOptions(ViewTiny)
	assert.EqualError(t, err, "invalid view: huge")
}
