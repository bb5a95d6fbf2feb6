package cache

import "encoding/json"

// encodeValue turns a value into its stored byte form. Strings are kept
// verbatim so the common string round-trip never touches JSON.
func encodeValue(value interface{}) ([]byte, error) {
	if s, ok := value.(string); ok {
		return []byte(s), nil
	}
	return json.Marshal(value)
}

// decodeValue fills dest from the stored bytes, mirroring encodeValue.
func decodeValue(data []byte, dest interface{}) error {
	if sp, ok := dest.(*string); ok {
		*sp = string(data)
		return nil
	}
	return json.Unmarshal(data, dest)
}
