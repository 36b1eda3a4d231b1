package lockfile

import (
	"fmt"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/xid"
)

// ownerMaxSize bounds the payload read back from an artifact. A well-formed
// payload is a few dozen bytes; anything larger is not ours.
const ownerMaxSize = 4096

// Owner is the claim payload written into a lock artifact. Token is the
// ownership proof compared at release; the rest is diagnostics for Inspect.
type Owner struct {
	Token        string `cbor:"1,keyasint"`
	PID          int    `cbor:"2,keyasint"`
	Hostname     string `cbor:"3,keyasint,omitempty"`
	AcquiredUnix int64  `cbor:"4,keyasint"`
}

// NewOwner returns a payload for a fresh claim with a unique token.
func NewOwner() (Owner, error) {
	host, err := os.Hostname()
	if err != nil {
		// Hostname is diagnostic only; a claim without one is still valid.
		host = ""
	}
	return Owner{
		Token:        xid.New().String(),
		PID:          os.Getpid(),
		Hostname:     host,
		AcquiredUnix: time.Now().Unix(),
	}, nil
}

// AcquiredAt returns the claim time recorded in the payload.
func (o Owner) AcquiredAt() time.Time {
	return time.Unix(o.AcquiredUnix, 0)
}

func (o Owner) encode() ([]byte, error) {
	data, err := cbor.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("encode owner: %w", err)
	}
	return data, nil
}

// ReadOwner decodes the claim payload from an artifact. Artifacts created by
// implementations that write no payload decode as an error, not an Owner.
func ReadOwner(artifact string) (Owner, error) {
	data, err := os.ReadFile(artifact)
	if err != nil {
		return Owner{}, err
	}
	if len(data) == 0 || len(data) > ownerMaxSize {
		return Owner{}, fmt.Errorf("artifact carries no owner payload")
	}
	var o Owner
	if err := cbor.Unmarshal(data, &o); err != nil {
		return Owner{}, fmt.Errorf("decode owner: %w", err)
	}
	if o.Token == "" {
		return Owner{}, fmt.Errorf("owner payload missing token")
	}
	return o, nil
}
