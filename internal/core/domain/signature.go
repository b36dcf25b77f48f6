package domain

import "time"

// Signature records the command line that last produced an output file.
// A different fingerprint on the next build means the flags changed and the
// output must be regenerated even if its timestamps look fresh.
type Signature struct {
	Output      string    `json:"output,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}
