package update

import (
	"bytes"
	"encoding/hex"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/zeebo/blake3"
)

// normalize trims surrounding whitespace, the only difference ignored when
// comparing generated and persisted text.
func normalize(src []byte) []byte {
	return bytes.TrimSpace(src)
}

// digest returns the hex BLAKE3 digest of the normalized text.
func digest(src []byte) string {
	sum := blake3.Sum256(normalize(src))
	return hex.EncodeToString(sum[:])
}

// unifiedDiff renders the change from before to after.
func unifiedDiff(name string, before, after []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}
