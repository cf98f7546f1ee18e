package pipe

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/modem-link-go/internal/errors"
)

func TestStream_RoundTrip(t *testing.T) {
	ctx := context.Background()
	near, far := net.Pipe()

	s := NewStream(nil, near)
	defer s.Close()

	go func() {
		buf := make([]byte, 16)
		n, _ := far.Read(buf)
		_, _ = far.Write(buf[:n])
	}()

	require.NoError(t, s.Write(ctx, []byte("AT\r\n")))

	got, err := s.Read(ctx, 16, time.Second)
	require.NoError(t, err)
	require.Equal(t, "AT\r\n", string(got))
}

func TestStream_ReadTimeoutIsSilent(t *testing.T) {
	near, far := net.Pipe()
	defer far.Close()

	s := NewStream(nil, near)
	defer s.Close()

	got, err := s.Read(context.Background(), 8, 30*time.Millisecond)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestStream_ReadHonorsMax(t *testing.T) {
	ctx := context.Background()
	near, far := net.Pipe()
	defer far.Close()

	s := NewStream(nil, near)
	defer s.Close()

	go func() {
		_, _ = far.Write([]byte("ABCDEF"))
	}()

	got, err := s.Read(ctx, 2, time.Second)
	require.NoError(t, err)
	require.Equal(t, "AB", string(got))

	// Leftover bytes from the same chunk are served before waiting again.
	got, err = s.Read(ctx, 8, time.Second)
	require.NoError(t, err)
	require.Equal(t, "CDEF", string(got))
}

func TestStream_PeerCloseSurfacesAfterDrain(t *testing.T) {
	ctx := context.Background()
	near, far := net.Pipe()

	s := NewStream(nil, near)
	defer s.Close()

	go func() {
		_, _ = far.Write([]byte("OK"))
		far.Close()
	}()

	got, err := s.Read(ctx, 8, time.Second)
	require.NoError(t, err)
	require.Equal(t, "OK", string(got))

	_, err = s.Read(ctx, 8, time.Second)
	require.Error(t, err)
}

func TestStream_WriteAfterClose(t *testing.T) {
	near, _ := net.Pipe()

	s := NewStream(nil, near)
	require.NoError(t, s.Close())

	err := s.Write(context.Background(), []byte("late"))
	require.ErrorIs(t, err, errors.ErrLinkClosed)

	// Close is idempotent.
	require.NoError(t, s.Close())
}
