package state

import (
	"time"
)

// newLocalEnv creates environment before command line is parsed. Logger and
// configuration are set later, once it is known they are needed.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}
