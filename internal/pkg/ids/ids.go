package ids

import "github.com/oklog/ulid/v2"

// New returns a lexicographically sortable identifier for user documents.
// ulid.Make draws from a process-wide monotonic source that is safe for
// concurrent use.
func New() string {
	return ulid.Make().String()
}
