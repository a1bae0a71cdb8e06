package agenda

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// ExternalID computes the stable deduplication key for an action item.
// The key is derived from the source document name, the paragraph index
// ("NA" when absent) and the trimmed item text, so reprocessing an unchanged
// document yields the same ID while any text or position change produces a
// new one.
func ExternalID(sourceDoc string, paragraphIndex *int, text string) string {
	index := "NA"
	if paragraphIndex != nil {
		index = strconv.Itoa(*paragraphIndex)
	}
	base := sourceDoc + "::" + index + "::" + strings.TrimSpace(text)
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}

// ItemExternalID is a convenience wrapper using the item's own fields.
func ItemExternalID(item ActionItem, sourceDoc string) string {
	return ExternalID(sourceDoc, item.ParagraphIndex, item.Text)
}
