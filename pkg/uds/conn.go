package uds

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"tradecore/pkg/exception"
)

// DefaultMaxFrameSize bounds a single frame unless configured otherwise.
const DefaultMaxFrameSize = 1 << 20

const frameHeaderSize = 4

// Conn exchanges length-prefixed frames over a Unix domain socket. Each
// frame is a 4-byte big-endian payload length followed by the payload.
// ReadFrame and WriteFrame may be used from different goroutines; writes are
// serialized.
type Conn struct {
	raw      *net.UnixConn
	r        *bufio.Reader
	wmu      sync.Mutex
	maxFrame int
}

func newConn(raw *net.UnixConn, maxFrame int) *Conn {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameSize
	}
	return &Conn{raw: raw, r: bufio.NewReader(raw), maxFrame: maxFrame}
}

// ReadFrame blocks until a whole frame is read. io.EOF is returned only
// when the peer closed between frames.
func (c *Conn) ReadFrame() ([]byte, error) {
	var hdr [frameHeaderSize]byte
	if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	switch {
	case n == 0:
		return nil, exception.ErrEmptyFrameUDS
	case uint64(n) > uint64(c.maxFrame):
		return nil, fmt.Errorf("%w: %d > %d", exception.ErrFrameTooLargeUDS, n, c.maxFrame)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}

// WriteFrame writes p as one frame.
func (c *Conn) WriteFrame(p []byte) error {
	switch {
	case len(p) == 0:
		return exception.ErrEmptyFrameUDS
	case len(p) > c.maxFrame:
		return fmt.Errorf("%w: %d > %d", exception.ErrFrameTooLargeUDS, len(p), c.maxFrame)
	}

	buf := make([]byte, frameHeaderSize+len(p))
	binary.BigEndian.PutUint32(buf, uint32(len(p)))
	copy(buf[frameHeaderSize:], p)

	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.raw.Write(buf)
	return err
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.raw.SetReadDeadline(t)
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	return c.raw.SetWriteDeadline(t)
}

func (c *Conn) Close() error {
	return c.raw.Close()
}
