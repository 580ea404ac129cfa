package game

import (
	"fmt"
	"log"
)

// strictInvariants turns invariant violations into panics. It is set by
// builds tagged "debug".
var strictInvariants = false

// violation reports a broken invariant. Callers clamp state afterwards.
func violation(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if strictInvariants {
		panic("invariant violated: " + msg)
	}
	log.Printf("Invariant violated: %s", msg)
}
