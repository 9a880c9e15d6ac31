package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.June, 1)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-01"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}

func TestDateUnmarshalRejectsBadInput(t *testing.T) {
	for _, input := range []string{`"2024-6-1"`, `"yesterday"`, `20240601`, `null`, `""`} {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(input), &d), "input %s", input)
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, time.June, 1, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, "2024-06-01", d.String(), "time component is dropped")

	require.NoError(t, d.Scan([]byte("2024-07-02")))
	assert.Equal(t, "2024-07-02", d.String())

	require.NoError(t, d.Scan("2024-08-03"))
	assert.Equal(t, "2024-08-03", d.String())

	assert.Error(t, d.Scan(42))
}

func TestDateAddDays(t *testing.T) {
	d := NewDate(2024, time.March, 1)
	assert.Equal(t, "2024-02-29", d.AddDays(-1).String(), "leap year")
	assert.Equal(t, "2024-03-11", d.AddDays(10).String())
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 02:30 on the 2nd in UTC+9 is still the 1st in UTC.
	d := DateOf(time.Date(2024, time.June, 2, 2, 30, 0, 0, loc))
	assert.Equal(t, "2024-06-01", d.String())
}
