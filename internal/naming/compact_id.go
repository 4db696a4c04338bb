package naming

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"
)

const (
	// maxUnix36 is 36^7, the first Unix second that no longer fits in the
	// seven base36 digits of the timestamp prefix (around year 4454).
	maxUnix36 = int64(78364164096)
	// suffixSpace is 36^5, the number of distinct random suffixes.
	suffixSpace = uint64(60466176)
)

// NewCompactID returns a 12-character lowercase base36 ID. The first seven
// characters encode the current Unix second, so IDs sort lexically in
// creation order at second granularity. The last five characters are random.
func NewCompactID() (string, error) {
	now := time.Now().UTC().Unix()
	if now < 0 || now >= maxUnix36 {
		return "", fmt.Errorf("unix time %d outside base36 prefix range", now)
	}
	var buf [8]byte
	if _, err := rand.Read(buf[2:]); err != nil {
		return "", fmt.Errorf("read random suffix: %w", err)
	}
	suffix := binary.BigEndian.Uint64(buf[:]) % suffixSpace
	return fmt.Sprintf("%07s%05s", strconv.FormatInt(now, 36), strconv.FormatUint(suffix, 36)), nil
}
