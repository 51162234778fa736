package gamelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitWriterReaderRoundTrip(t *testing.T) {
	var w BitWriter
	w.WriteBits(0b10, 2)
	w.WriteBits(0b1011, 4)
	w.WriteBits(1, 1)
	w.WriteBits(0, 1)

	r := NewBitReader(w.Bytes())
	assert.Equal(t, uint32(0b10), r.ReadBits(2))
	assert.Equal(t, uint32(0b1011), r.ReadBits(4))
	assert.Equal(t, uint32(1), r.ReadBits(1))
	assert.Equal(t, uint32(0), r.ReadBits(1))
}

func TestBitWriterLenTracksBitsWritten(t *testing.T) {
	var w BitWriter
	w.WriteBits(3, 2)
	w.WriteBits(1, 1)
	assert.Equal(t, 3, w.Len())
}

func TestBitReaderRemainingAndOverrun(t *testing.T) {
	var w BitWriter
	w.WriteBits(0b1, 1)
	r := NewBitReader(w.Bytes())

	assert.Equal(t, 8, r.Remaining())
	r.ReadBits(1)
	assert.Equal(t, 7, r.Remaining())

	// Reading past the end yields zero bits rather than panicking.
	r2 := NewBitReader(nil)
	assert.Equal(t, uint32(0), r2.ReadBits(8))
	assert.Equal(t, 0, r2.Remaining())
}

func TestBitWriterCrossesByteBoundary(t *testing.T) {
	var w BitWriter
	for i := 0; i < 5; i++ {
		w.WriteBits(uint32(i%2), 1)
	}
	w.WriteBits(0b1111, 4)

	r := NewBitReader(w.Bytes())
	for i := 0; i < 5; i++ {
		assert.Equal(t, uint32(i%2), r.ReadBits(1))
	}
	assert.Equal(t, uint32(0b1111), r.ReadBits(4))
}
