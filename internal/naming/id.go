package naming

import "github.com/google/uuid"

// NewID returns a random identifier of the form "<prefix>-<uuid>" used as the
// primary key for stored records. The prefix marks the record kind so an ID is
// self-describing in logs and event payloads.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
