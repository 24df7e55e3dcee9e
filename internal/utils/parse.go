package utils

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// UnmarshalLenient decodes data into v. Input that is not valid JSON is passed
// through jsonrepair first; repaired reports whether that happened. Valid JSON
// that does not fit v fails as json.Unmarshal would.
func UnmarshalLenient(data []byte, v any) (repaired bool, err error) {
	err = json.Unmarshal(data, v)
	if err == nil || json.Valid(data) {
		return false, err
	}

	fixed, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return false, fmt.Errorf("invalid JSON and repair failed: %w", repairErr)
	}
	if err := json.Unmarshal([]byte(fixed), v); err != nil {
		return true, fmt.Errorf("error decoding repaired JSON: %w", err)
	}
	return true, nil
}
