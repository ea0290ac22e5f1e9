package relay

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// NewSessionID returns the identifier assigned to a freshly accepted
// connection. IDs are random UUIDs, so collisions are negligible for the
// life of the process. Should the platform randomness source fail, the
// fallback of timestamp plus pseudo-random suffix is still treated as
// unique; a collision there is an accepted risk, not a hard failure.
func NewSessionID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Sprintf("s-%x-%04x", time.Now().UnixNano(), rand.Intn(1<<16))
	}
	return id.String()
}
