package cloudevent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	ce, err := New("parking-booking", "booking.created", map[string]string{"booking_id": "b1"})
	require.NoError(t, err)
	assert.Equal(t, SpecVersion, ce.SpecVersion)
	assert.NotEmpty(t, ce.ID)

	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "booking.created", parsed.Type)

	var data map[string]string
	require.NoError(t, parsed.ParseData(&data))
	assert.Equal(t, "b1", data["booking_id"])
}

func TestParse_RejectsUntyped(t *testing.T) {
	_, err := Parse([]byte(`{"id":"x"}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}
