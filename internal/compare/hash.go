package compare

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash content-addresses a diff pack. The pack is re-marshaled through a
// generic map so object keys come out sorted; identical comparisons always
// produce the same digest, which makes it usable as a narrative cache key.
func Hash(pack DiffPack) (string, error) {
	raw, err := json.Marshal(pack)
	if err != nil {
		return "", err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
