package model

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

// hashOf hashes the canonical JSON form of a DTO. encoding/json sorts map keys, so equal values hash equally.
func hashOf(v any) uint64 {
	data, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
