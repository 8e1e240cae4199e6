package fpindex

import (
	"context"
	"fmt"

	"github.com/refpersys/rpsfront/rpshash"
)

// Store keeps the first text seen for each fingerprint.
type Store interface {
	// Record remembers text under fp unless fp is already known. It returns
	// the text previously stored under fp, if any, and whether that text
	// differs from text, which means two strings share a fingerprint.
	// Implementations must make the check-and-store atomic.
	Record(ctx context.Context, fp rpshash.Fingerprint, text string) (prior string, collided bool, err error)
}

// key renders a fingerprint as a store key: <h0>:<h1>.
func key(fp rpshash.Fingerprint) string {
	return fmt.Sprintf("%d:%d", fp.H0, fp.H1)
}
