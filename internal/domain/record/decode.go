package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Decode reads a JSON array of records from r.  Anything other than an array
// at the top level is an error; individual fields are decoded leniently.
func Decode(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("record: read payload: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("record: payload must be a JSON array, got %v", tok)
	}

	records := make([]Record, 0, 64)
	for dec.More() {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("record: decode element %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("record: read payload end: %w", err)
	}
	return records, nil
}

// DecodeBytes is Decode over an in-memory payload.
func DecodeBytes(data []byte) ([]Record, error) {
	return Decode(bytes.NewReader(data))
}

// Encode renders records as a JSON array.
func Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(records)
}

//Personal.AI order the ending
