package models

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Promotion is a discount tied to a product with a validity date window.
// The window [StartDate, EndDate] is inclusive on both ends.
type Promotion struct {
	ID            int    `json:"id"`
	Name          string `json:"name" validate:"required"`
	PromotionType string `json:"promotion_type" validate:"required"`
	Value         int    `json:"value"`
	ProductID     int    `json:"product_id"`
	StartDate     Date   `json:"start_date" validate:"required"`
	EndDate       Date   `json:"end_date" validate:"required"`
}

var requiredFields = []string{"name", "promotion_type", "value", "product_id", "start_date", "end_date"}

// Deserialize populates the six required fields from an untrusted JSON
// body. It never touches ID and never touches storage. Failures are
// *ValidationError values naming the offending field.
func (p *Promotion) Deserialize(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return NewValidationError("invalid promotion: body of request contained bad or no data")
	}

	for _, key := range requiredFields {
		if _, ok := fields[key]; !ok {
			return NewValidationError("invalid promotion: missing %s", key)
		}
	}

	// json.Unmarshal treats null as a no-op for ints and strings, so
	// nulls have to be rejected up front.
	if isNull(fields["name"]) || json.Unmarshal(fields["name"], &p.Name) != nil {
		return NewValidationError("invalid type for string [name]: %s", jsonTypeName(fields["name"]))
	}
	if isNull(fields["promotion_type"]) || json.Unmarshal(fields["promotion_type"], &p.PromotionType) != nil {
		return NewValidationError("invalid type for string [promotion_type]: %s", jsonTypeName(fields["promotion_type"]))
	}

	// Integers must be JSON integers: numeric strings and floats are rejected.
	if isNull(fields["value"]) || json.Unmarshal(fields["value"], &p.Value) != nil {
		return NewValidationError("invalid type for integer [value]: %s", jsonTypeName(fields["value"]))
	}
	if isNull(fields["product_id"]) || json.Unmarshal(fields["product_id"], &p.ProductID) != nil {
		return NewValidationError("invalid type for integer [product_id]: %s", jsonTypeName(fields["product_id"]))
	}

	if err := json.Unmarshal(fields["start_date"], &p.StartDate); err != nil {
		return NewValidationError("invalid date format for [start_date]: must be YYYY-MM-DD")
	}
	if err := json.Unmarshal(fields["end_date"], &p.EndDate); err != nil {
		return NewValidationError("invalid date format for [end_date]: must be YYYY-MM-DD")
	}

	return nil
}

// Serialize renders the promotion as its JSON wire form, dates normalized
// to YYYY-MM-DD strings.
func (p *Promotion) Serialize() ([]byte, error) {
	return json.Marshal(p)
}

var validate = validator.New()

// Validate is a final guard before persistence: all required fields must
// be set. Deserialize already enforces this for request bodies.
func (p *Promotion) Validate() error {
	if err := validate.Struct(p); err != nil {
		return NewValidationError("invalid promotion data: %v", err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// jsonTypeName names the JSON type of a raw value for error messages.
func jsonTypeName(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "empty"
	}
	switch trimmed[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		if bytes.ContainsAny(trimmed, ".eE") {
			return "float"
		}
		return "number"
	}
}
