// Package enums holds the dictionary enums shared by the system modules.
//
// Every enum implements BaseEnum and is written to JSON as its underlying
// value (1, 2, ...) rather than its name. Excel exports use Description.
package enums

import (
	"encoding/json"
	"fmt"
)

type BaseEnum interface {
	Value() int
	Description() string
}

// MarshalBaseEnum renders e as its scalar value.
func MarshalBaseEnum(e BaseEnum) ([]byte, error) {
	return json.Marshal(e.Value())
}

// unmarshalValue accepts the scalar form and checks it against valid.
// null leaves the enum unset (zero).
func unmarshalValue(data []byte, name string, valid func(int) bool) (int, error) {
	if string(data) == "null" {
		return 0, nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if !valid(v) {
		return 0, fmt.Errorf("%s: invalid value %d", name, v)
	}
	return v, nil
}
