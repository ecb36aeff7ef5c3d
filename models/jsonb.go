package models

import "encoding/json"

// scanJSONB decodes a JSONB column value into dest. pgx may hand the value
// over as []byte or string; NULL and empty values leave dest untouched and
// report false.
func scanJSONB(value interface{}, dest interface{}) (bool, error) {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		return false, nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return false, nil
	}
	if len(bytes) == 0 {
		return false, nil
	}
	return true, json.Unmarshal(bytes, dest)
}
