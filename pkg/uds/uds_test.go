package uds

import (
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/pkg/exception"
)

// socketPath keeps the path short; sun_path is limited to ~104 bytes and
// t.TempDir can exceed it on some hosts.
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "uds")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func pair(t *testing.T, maxFrame int) (*Conn, *Conn) {
	t.Helper()
	path := socketPath(t)

	srv, err := NewServer(path, maxFrame)
	require.NoError(t, err)
	require.NoError(t, srv.Listen())
	t.Cleanup(func() { _ = srv.Close() })

	accepted := make(chan *Conn, 1)
	go func() {
		c, err := srv.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()

	cli, err := NewClient(path, maxFrame)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c, err := cli.Dial(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	s, ok := <-accepted
	require.True(t, ok, "accept failed")
	t.Cleanup(func() { _ = s.Close() })
	return c, s
}

func TestFrameRoundTrip(t *testing.T) {
	c, s := pair(t, 0)

	frames := [][]byte{[]byte("a"), []byte("hello"), make([]byte, 4096)}
	for _, f := range frames {
		require.NoError(t, c.WriteFrame(f))
	}
	for _, want := range frames {
		got, err := s.ReadFrame()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	require.NoError(t, s.WriteFrame([]byte("reply")))
	got, err := c.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte("reply"), got)
}

func TestFrameEOF(t *testing.T) {
	c, s := pair(t, 0)
	require.NoError(t, c.Close())

	_, err := s.ReadFrame()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFrameLimits(t *testing.T) {
	c, s := pair(t, 8)

	assert.ErrorIs(t, c.WriteFrame(nil), exception.ErrEmptyFrameUDS)
	assert.ErrorIs(t, c.WriteFrame(make([]byte, 9)), exception.ErrFrameTooLargeUDS)

	// A peer that ignores the limit is caught on read.
	var hdr [frameHeaderSize]byte
	binary.BigEndian.PutUint32(hdr[:], 64)
	_, err := c.raw.Write(hdr[:])
	require.NoError(t, err)
	_, err = s.ReadFrame()
	assert.ErrorIs(t, err, exception.ErrFrameTooLargeUDS)
}

func TestReadEmptyFrame(t *testing.T) {
	c, s := pair(t, 0)

	var hdr [frameHeaderSize]byte
	_, err := c.raw.Write(hdr[:])
	require.NoError(t, err)
	_, err = s.ReadFrame()
	assert.ErrorIs(t, err, exception.ErrEmptyFrameUDS)
}

func TestReadTruncatedFrame(t *testing.T) {
	c, s := pair(t, 0)

	var hdr [frameHeaderSize]byte
	binary.BigEndian.PutUint32(hdr[:], 10)
	_, err := c.raw.Write(append(hdr[:], 'x', 'y'))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = s.ReadFrame()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestServerCloseUnblocksAccept(t *testing.T) {
	srv, err := NewServer(socketPath(t), 0)
	require.NoError(t, err)
	require.NoError(t, srv.Listen())
	assert.ErrorIs(t, srv.Listen(), exception.ErrAlreadyListeningUDS)

	done := make(chan error, 1)
	go func() {
		_, err := srv.Accept()
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, srv.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, exception.ErrConnectionClose)
	case <-time.After(time.Second):
		t.Fatal("accept did not return after close")
	}

	_, err = srv.Accept()
	assert.ErrorIs(t, err, exception.ErrNotListeningUDS)
	assert.NoError(t, srv.Close())
}

func TestPathValidation(t *testing.T) {
	_, err := NewServer("", 0)
	assert.ErrorIs(t, err, exception.ErrEmptyPathUDS)
	_, err = NewClient("", 0)
	assert.ErrorIs(t, err, exception.ErrEmptyPathUDS)

	var srv *Server
	assert.ErrorIs(t, srv.Listen(), exception.ErrNilServerUDS)
	var cli *Client
	_, err = cli.Dial(context.Background())
	assert.ErrorIs(t, err, exception.ErrNilClientUDS)

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	assert.ErrorIs(t, RemoveIfExists(file), exception.ErrPathNotSocketUDS)
	assert.NoError(t, RemoveIfExists(filepath.Join(t.TempDir(), "missing")))
}
