package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Frame header: u32be length (sequence + payload), u32be sequence.
const headerSize = 8

// MaxFrameSize bounds a single frame. Savestate frames carry emulator
// memory blocks, so the cap is generous.
const MaxFrameSize = 1 << 22

// Frame is one length-delimited protocol message. For client requests the
// first u32 of Payload is the opcode; for server pushes Seq identifies the
// message kind.
type Frame struct {
	Seq     uint32
	Payload []byte
}

// Encode serializes a frame: u32be(4+len(payload)) || u32be(seq) || payload.
func Encode(seq uint32, payload []byte) []byte {
	buf := make([]byte, headerSize+len(payload))
	binary.BigEndian.PutUint32(buf[0:4], uint32(4+len(payload)))
	binary.BigEndian.PutUint32(buf[4:8], seq)
	copy(buf[headerSize:], payload)
	return buf
}

// EncodeAck builds an ACK reply: four zero bytes echoing the request sequence.
func EncodeAck(seq uint32) []byte {
	return Encode(seq, []byte{0, 0, 0, 0})
}

// EncodeNack builds a NACK reply carrying the error code.
func EncodeNack(seq uint32, code uint32) []byte {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint32(payload, code)
	return Encode(seq, payload)
}

// Scanner accumulates stream bytes and yields complete frames. A chunk may
// contain several frames, or a fraction of one; the remainder is kept for
// the next Append.
type Scanner struct {
	buf []byte
}

// Append adds raw bytes received from the stream.
func (s *Scanner) Append(p []byte) {
	s.buf = append(s.buf, p...)
}

// Buffered returns the number of bytes not yet consumed by Next.
func (s *Scanner) Buffered() int {
	return len(s.buf)
}

// Next returns the next complete frame, if the buffer holds one.
// It returns an error on a malformed length field; the connection should be
// dropped in that case since framing is lost.
func (s *Scanner) Next() (Frame, bool, error) {
	if len(s.buf) < 4 {
		return Frame{}, false, nil
	}
	length := binary.BigEndian.Uint32(s.buf[0:4])
	if length < 4 || length > MaxFrameSize {
		return Frame{}, false, fmt.Errorf("invalid frame length: %d", length)
	}
	total := int(length) + 4
	if len(s.buf) < total {
		return Frame{}, false, nil
	}
	seq := binary.BigEndian.Uint32(s.buf[4:8])
	payload := make([]byte, total-headerSize)
	copy(payload, s.buf[headerSize:total])
	s.buf = s.buf[:copy(s.buf, s.buf[total:])]
	return Frame{Seq: seq, Payload: payload}, true, nil
}

// maxReadStalls bounds consecutive zero-byte nil-error reads, which
// io.Reader implementations are allowed to return, before the stream is
// declared stuck.
const maxReadStalls = 100

// FrameReader reads frames from an io.Reader through a Scanner, preserving
// partial frames between reads.
type FrameReader struct {
	r       io.Reader
	scanner Scanner
	chunk   []byte
	stalls  int
}

// NewFrameReader wraps r for frame-at-a-time reading.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r, chunk: make([]byte, 16384)}
}

// Next blocks until a complete frame is available or the stream fails.
func (fr *FrameReader) Next() (Frame, error) {
	for {
		frame, ok, err := fr.scanner.Next()
		if err != nil {
			return Frame{}, err
		}
		if ok {
			return frame, nil
		}
		n, err := fr.r.Read(fr.chunk)
		if n > 0 {
			fr.stalls = 0
			fr.scanner.Append(fr.chunk[:n])
			continue
		}
		if err != nil {
			return Frame{}, err
		}
		fr.stalls++
		if fr.stalls >= maxReadStalls {
			return Frame{}, io.ErrNoProgress
		}
	}
}
