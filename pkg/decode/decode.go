// Package decode converts loosely typed maps into structs.
package decode

import "encoding/json"

// FromMap round-trips data through JSON into T. Used to read typed payloads
// out of orchestration event data.
func FromMap[T any](data map[string]any) (T, error) {
	var result T
	if data == nil {
		return result, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(b, &result)
	return result, err
}
