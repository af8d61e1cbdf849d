package assist

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// CacheKey hashes everything that determines a result: the operation, the
// model and option fingerprint, the translation target and the text.
// Fields are length-prefixed so no two field lists collide.
func CacheKey(mode, fingerprint, target, text string) string {
	h := sha256.New()
	var n [8]byte
	for _, field := range []string{mode, fingerprint, target, text} {
		binary.LittleEndian.PutUint64(n[:], uint64(len(field)))
		h.Write(n[:])
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}
