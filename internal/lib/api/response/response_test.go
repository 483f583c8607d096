package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	b := Success("done", map[string]any{"id": "42"})

	assert.True(t, b.Success)
	assert.Equal(t, "done", b.Message)
	assert.Equal(t, map[string]any{"id": "42"}, b.Data)
	assert.Nil(t, b.Count)
}

func TestSuccessNilData(t *testing.T) {
	raw, err := json.Marshal(Success("done", nil))
	require.NoError(t, err)

	// data is always an object, never null
	assert.JSONEq(t, `{"success":true,"message":"done","data":{}}`, string(raw))
}

func TestSuccessCount(t *testing.T) {
	raw, err := json.Marshal(SuccessCount("", map[string]any{"videos": []any{}}, 0))
	require.NoError(t, err)

	// zero count is still serialized
	assert.JSONEq(t, `{"success":true,"message":"","data":{"videos":[]},"count":0}`, string(raw))
}

func TestFailure(t *testing.T) {
	raw, err := json.Marshal(Failure("nope"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":false,"message":"nope","data":{}}`, string(raw))
}
