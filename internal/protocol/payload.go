package protocol

import (
	"encoding/binary"
	"fmt"
)

// Reader is a cursor over a request payload. All integers are big-endian;
// strings are u32be length followed by raw bytes (passthrough UTF-8).
// The first decode error sticks and subsequent reads return zero values.
type Reader struct {
	buf []byte
	off int
	err error
}

// NewReader positions a cursor at the start of payload.
func NewReader(payload []byte) *Reader {
	return &Reader{buf: payload}
}

// Err returns the first decode error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Uint32 reads one big-endian u32.
func (r *Reader) Uint32() uint32 {
	if r.err != nil {
		return 0
	}
	if r.off+4 > len(r.buf) {
		r.err = fmt.Errorf("payload truncated at offset %d", r.off)
		return 0
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

// String reads one length-prefixed string.
func (r *Reader) String() string {
	n := int(r.Uint32())
	if r.err != nil {
		return ""
	}
	if n < 0 || r.off+n > len(r.buf) {
		r.err = fmt.Errorf("string of %d bytes exceeds payload at offset %d", n, r.off)
		return ""
	}
	s := string(r.buf[r.off : r.off+n])
	r.off += n
	return s
}

// Bytes reads exactly n raw bytes.
func (r *Reader) Bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("%d raw bytes exceed payload at offset %d", n, r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

// Rest returns everything after the cursor. Used for opaque game buffers
// whose length is implied by the frame length.
func (r *Reader) Rest() []byte {
	if r.err != nil {
		return nil
	}
	b := r.buf[r.off:]
	r.off = len(r.buf)
	return b
}

// Builder composes a push or reply payload.
type Builder struct {
	buf []byte
}

// NewBuilder returns an empty payload builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Uint32 appends a big-endian u32.
func (b *Builder) Uint32(v uint32) *Builder {
	b.buf = binary.BigEndian.AppendUint32(b.buf, v)
	return b
}

// String appends a length-prefixed string.
func (b *Builder) String(s string) *Builder {
	b.buf = binary.BigEndian.AppendUint32(b.buf, uint32(len(s)))
	b.buf = append(b.buf, s...)
	return b
}

// Raw appends bytes verbatim.
func (b *Builder) Raw(p []byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

// Bytes returns the composed payload.
func (b *Builder) Bytes() []byte {
	return b.buf
}
