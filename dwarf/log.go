package dwarf

import "github.com/sirupsen/logrus"

// log is the package-level diagnostic sink for the non-fatal conditions the
// emitter reports instead of failing: a frontend type with no DIE shape
// degrading to a pad1 DIE, an unknown location kind, an EmitterConfig
// policy field that is ignored, and a compile_unit DIE overflowing its
// reserved region. They go through a standard *logrus.Entry the way
// go-delve/delve wires a named logrus logger per subsystem rather than
// using the bare log package.
var log = logrus.StandardLogger().WithField("component", "dwarf")

// SetLogger lets a driver point the emitter's diagnostics at its own
// logrus configuration (output, level, hooks) instead of the default
// standard logger.
func SetLogger(entry *logrus.Entry) {
	if entry == nil {
		return
	}
	log = entry
}
