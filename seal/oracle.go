package seal

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"

	"github.com/mightysai1997/sdjournal/wire"
)

// Oracle produces and verifies the MAC stored in a Tag object. The
// storage core treats every Oracle as opaque: it supplies the epoch and
// the byte range being sealed and stores whatever MAC comes back.
type Oracle interface {
	// Seal returns the MAC for the given epoch and byte range.
	Seal(epoch uint64, data []byte) ([wire.TagMACSize]byte, error)

	// Verify reports whether mac is the correct seal for (epoch, data).
	Verify(epoch uint64, data []byte, mac [wire.TagMACSize]byte) (bool, error)
}

// HMACOracle is a fixed-key HMAC-SHA256 Oracle. It does not implement
// the real forward-secure key-evolving scheme (each epoch would need a
// derived key that forgets the previous one) — it exists so the engine
// has a working default collaborator without depending on an external
// key-management service. Production deployments should supply their own
// Oracle backed by a real forward-secure construction.
type HMACOracle struct {
	key []byte
}

// NewHMACOracle returns an Oracle keyed by key. key is not copied.
func NewHMACOracle(key []byte) *HMACOracle {
	return &HMACOracle{key: key}
}

func (o *HMACOracle) Seal(epoch uint64, data []byte) ([wire.TagMACSize]byte, error) {
	var out [wire.TagMACSize]byte

	mac := hmac.New(sha256.New, o.key)
	var epochBuf [8]byte
	binary.LittleEndian.PutUint64(epochBuf[:], epoch)
	mac.Write(epochBuf[:])
	mac.Write(data)

	copy(out[:], mac.Sum(nil))
	return out, nil
}

func (o *HMACOracle) Verify(epoch uint64, data []byte, want [wire.TagMACSize]byte) (bool, error) {
	got, err := o.Seal(epoch, data)
	if err != nil {
		return false, err
	}
	return hmac.Equal(got[:], want[:]), nil
}
