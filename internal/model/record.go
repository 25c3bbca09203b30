package model

import "venuestream/internal/model/enum"

// Record is a typed push update produced by a Coercer.
type Record interface {
	Kind() enum.UpdateKind
}

// Fields is a raw field set as delivered by the transport or decoded from a
// nested JSON payload. Values are strings, json.Number, bool, nested maps or slices.
type Fields map[string]any

// FieldsFromStrings converts a flat transport field set.
func FieldsFromStrings(values map[string]string) Fields {
	if values == nil {
		return nil
	}
	fields := make(Fields, len(values))
	for k, v := range values {
		fields[k] = v
	}
	return fields
}

// AccountRef identifies an account of the active client.
type AccountRef struct {
	ID        string `json:"accountId"`
	Name      string `json:"accountName,omitempty"`
	Preferred bool   `json:"preferred,omitempty"`
}
