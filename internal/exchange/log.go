package exchange

import "github.com/dreamware/flowcore/internal/logz"

// log is the logger the shard-partition and gather-channel paths write
// through. It defaults to a no-op (the library-silent default
// internal/logz's own constructors use) and is overridden once per
// process via SetLogger. Unlike worker.Runtime, which takes its logger
// as a constructor argument, this is a package-level variable shared by
// every Partition and Channel in the process.
var log = logz.NewNop()

// SetLogger installs the logger Partition and Channel report through.
// A nil l is ignored.
func SetLogger(l *logz.Logger) {
	if l != nil {
		log = l
	}
}
