package sqlite

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// Fingerprint returns the xxHash of the cells as a hex string.
// Cells are separated by the unit separator so that shifting text between
// columns changes the hash.
func Fingerprint(cells []string) string {
	h := xxhash.Sum64String(strings.Join(cells, "\x1f"))
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, h))
}
