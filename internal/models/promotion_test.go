package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":           "Summer Sale",
		"promotion_type": "Percentage off",
		"value":          20,
		"product_id":     101,
		"start_date":     "2024-06-01",
		"end_date":       "2024-06-30",
	}
}

func marshalPayload(t *testing.T, payload map[string]interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return data
}

func TestDeserializeValidPayload(t *testing.T) {
	var p Promotion
	err := p.Deserialize(marshalPayload(t, validPayload()))
	require.NoError(t, err)

	assert.Equal(t, 0, p.ID, "deserialize must not touch id")
	assert.Equal(t, "Summer Sale", p.Name)
	assert.Equal(t, "Percentage off", p.PromotionType)
	assert.Equal(t, 20, p.Value)
	assert.Equal(t, 101, p.ProductID)
	assert.Equal(t, "2024-06-01", p.StartDate.String())
	assert.Equal(t, "2024-06-30", p.EndDate.String())
}

func TestSerializeRoundTrip(t *testing.T) {
	var p Promotion
	require.NoError(t, p.Deserialize(marshalPayload(t, validPayload())))
	p.ID = 7

	data, err := p.Serialize()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(7), decoded["id"])
	assert.Equal(t, "Summer Sale", decoded["name"])
	assert.Equal(t, "Percentage off", decoded["promotion_type"])
	assert.Equal(t, float64(20), decoded["value"])
	assert.Equal(t, float64(101), decoded["product_id"])
	assert.Equal(t, "2024-06-01", decoded["start_date"])
	assert.Equal(t, "2024-06-30", decoded["end_date"])

	var again Promotion
	require.NoError(t, again.Deserialize(data))
	again.ID = p.ID
	assert.Equal(t, p, again)
}

func TestDeserializeMissingFields(t *testing.T) {
	for _, field := range []string{"name", "promotion_type", "value", "product_id", "start_date", "end_date"} {
		t.Run(field, func(t *testing.T) {
			payload := validPayload()
			delete(payload, field)

			var p Promotion
			err := p.Deserialize(marshalPayload(t, payload))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Message, "missing "+field)
		})
	}
}

func TestDeserializeRejectsNonIntegers(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value interface{}
		want  string
	}{
		{"value as string", "value", "20", "string"},
		{"value as float", "value", 10.5, "float"},
		{"value as bool", "value", true, "boolean"},
		{"product_id as string", "product_id", "101", "string"},
		{"product_id as float", "product_id", 1.5, "float"},
		{"product_id as null", "product_id", nil, "null"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := validPayload()
			payload[tc.field] = tc.value

			var p Promotion
			err := p.Deserialize(marshalPayload(t, payload))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Message, "["+tc.field+"]")
			assert.Contains(t, validationErr.Message, tc.want)
		})
	}
}

func TestDeserializeRejectsBadDates(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value interface{}
	}{
		{"garbage start date", "start_date", "not-a-date"},
		{"out of range month", "start_date", "2024-13-01"},
		{"wrong layout", "end_date", "06/30/2024"},
		{"numeric date", "end_date", 20240630},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := validPayload()
			payload[tc.field] = tc.value

			var p Promotion
			err := p.Deserialize(marshalPayload(t, payload))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Message, "["+tc.field+"]")
		})
	}
}

func TestDeserializeRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`"just a string"`, `null`, `[1, 2, 3]`, `42`, ``, `{invalid`} {
		var p Promotion
		err := p.Deserialize([]byte(body))
		require.Error(t, err, "body %q should be rejected", body)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	}
}

func TestValidateRequiresFields(t *testing.T) {
	var empty Promotion
	assert.Error(t, empty.Validate())

	var p Promotion
	require.NoError(t, p.Deserialize(marshalPayload(t, validPayload())))
	assert.NoError(t, p.Validate())

	p.Name = ""
	assert.Error(t, p.Validate())
}
