package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey derives a namespaced cache key: prefix + ":" + SHA-256 over the
// JSON encoding of parts. Payload hashes and option structs go in as-is;
// the full digest keeps distinct builds from ever sharing an entry.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 digest of data, 64 characters. It doubles
// as the payload hash reported on pipeline results.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
