package sigsource

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// keccak256 hashes data with Keccak-256 (not the later NIST SHA3-256
// variant — Solidity's selector/topic hashing predates the standard).
func keccak256(data []byte) []byte {
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	return d.Sum(nil)
}

// VerifySignature reports whether candidate text (e.g. "transfer(address,uint256)"
// or "Transfer(address,address,uint256)") actually hashes to the recovered
// selector or topic hash want (an "0x"-prefixed hex string of either 4 or 32
// bytes). This never derives a selector or topic on its own — it only
// confirms a signature-directory candidate against what the core already
// recovered, so it stays outside the core's "no hashing" boundary (§1).
func VerifySignature(text, want string) bool {
	want = strings.ToLower(strings.TrimPrefix(want, "0x"))
	hash := keccak256([]byte(text))

	wantLen := len(want) / 2
	if wantLen != 4 && wantLen != 32 {
		return false
	}
	got := hash[:wantLen]
	return hex.EncodeToString(got) == want
}
