package output

import "time"

// Clock is the single source of "now".
type Clock interface {
	Now() time.Time
}
