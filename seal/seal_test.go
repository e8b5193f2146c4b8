package seal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHMACOracle_SealVerify(t *testing.T) {
	o := NewHMACOracle([]byte("test-key"))

	data := []byte("some sealed byte range")
	mac, err := o.Seal(1, data)
	require.NoError(t, err)

	ok, err := o.Verify(1, data, mac)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHMACOracle_WrongEpochFails(t *testing.T) {
	o := NewHMACOracle([]byte("test-key"))

	data := []byte("some sealed byte range")
	mac, err := o.Seal(1, data)
	require.NoError(t, err)

	ok, err := o.Verify(2, data, mac)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHMACOracle_TamperedDataFails(t *testing.T) {
	o := NewHMACOracle([]byte("test-key"))

	mac, err := o.Seal(1, []byte("original"))
	require.NoError(t, err)

	ok, err := o.Verify(1, []byte("tampered!"), mac)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPolicy_ShouldSeal(t *testing.T) {
	p := Policy{MinBytesBetweenTags: 1024}
	require.False(t, p.ShouldSeal(1023))
	require.True(t, p.ShouldSeal(1024))
	require.True(t, p.ShouldSeal(2000))
}

func TestPolicy_DisabledWhenZero(t *testing.T) {
	p := Policy{MinBytesBetweenTags: 0}
	require.False(t, p.ShouldSeal(1<<30))
}

func TestSealer_NextTagIncrementsEpoch(t *testing.T) {
	s := NewSealer(NewHMACOracle([]byte("k")), DefaultPolicy())
	require.Zero(t, s.Epoch())

	tag1, err := s.NextTag(10, []byte("range1"))
	require.NoError(t, err)
	require.EqualValues(t, 1, tag1.Epoch)
	require.EqualValues(t, 10, tag1.Seqnum)

	tag2, err := s.NextTag(20, []byte("range2"))
	require.NoError(t, err)
	require.EqualValues(t, 2, tag2.Epoch)
	require.EqualValues(t, 2, s.Epoch())
}

func TestSealer_VerifyRoundTrip(t *testing.T) {
	s := NewSealer(NewHMACOracle([]byte("k")), DefaultPolicy())

	tag, err := s.NextTag(1, []byte("payload"))
	require.NoError(t, err)

	ok, err := s.Verify(tag, []byte("payload"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Verify(tag, []byte("different"))
	require.NoError(t, err)
	require.False(t, ok)
}
