package order

import (
	"fmt"
	"sync/atomic"
	"time"
)

var idCounter atomic.Uint64

// newID builds a unique id. Nanosecond timestamps alone can collide when two
// mutations land in the same tick, hence the counter suffix.
func newID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), idCounter.Add(1))
}
