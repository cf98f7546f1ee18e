package pipe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/modem-link-go/internal/errors"
)

func TestLink_RoundTrip(t *testing.T) {
	ctx := context.Background()
	a, b := Link(64)

	require.NoError(t, a.Write(ctx, []byte("AT\r\n")))

	got, err := b.Read(ctx, 16, 100*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "AT\r\n", string(got))

	// Both directions are independent.
	require.NoError(t, b.Write(ctx, []byte("\r\nOK\r\n")))

	got, err = a.Read(ctx, 16, 100*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "\r\nOK\r\n", string(got))
}

func TestLink_ReadTimeoutIsSilent(t *testing.T) {
	ctx := context.Background()
	_, b := Link(64)

	start := time.Now()
	got, err := b.Read(ctx, 1, 30*time.Millisecond)
	require.NoError(t, err)
	require.Empty(t, got)
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestLink_ReadHonorsMax(t *testing.T) {
	ctx := context.Background()
	a, b := Link(64)

	require.NoError(t, a.Write(ctx, []byte("ABCDEF")))

	got, err := b.Read(ctx, 4, 100*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "ABCD", string(got))

	got, err = b.Read(ctx, 4, 100*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "EF", string(got))
}

func TestLink_BackPressureDelaysWrite(t *testing.T) {
	ctx := context.Background()
	a, b := Link(64)

	// Receiver deasserts readiness: the sender must be delayed, not
	// succeed instantly and not lose data.
	b.SetReady(false)

	written := make(chan struct{})
	go func() {
		defer close(written)
		_ = a.Write(ctx, []byte("AT\r\n"))
	}()

	select {
	case <-written:
		t.Fatal("write completed while receiver not ready")
	case <-time.After(50 * time.Millisecond):
	}

	b.SetReady(true)

	select {
	case <-written:
	case <-time.After(time.Second):
		t.Fatal("write did not resume after readiness returned")
	}

	got, err := b.Read(ctx, 16, 100*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "AT\r\n", string(got))
}

func TestLink_FullBufferBlocksUntilDrained(t *testing.T) {
	ctx := context.Background()
	a, b := Link(4)

	payload := []byte("ABCDEFGH") // twice the capacity

	written := make(chan error, 1)
	go func() {
		written <- a.Write(ctx, payload)
	}()

	// Drain slowly; every byte must arrive in order with none dropped.
	var got []byte
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < len(payload) && time.Now().Before(deadline) {
		chunk, err := b.Read(ctx, 3, 100*time.Millisecond)
		require.NoError(t, err)
		got = append(got, chunk...)
	}

	require.NoError(t, <-written)
	require.Equal(t, string(payload), string(got))
}

func TestLink_WriteHonorsContext(t *testing.T) {
	a, b := Link(4)
	b.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := a.Write(ctx, []byte("blocked"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLink_ReadHonorsContext(t *testing.T) {
	_, b := Link(4)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	// Context cancellation cuts a long read timeout short.
	_, err := b.Read(ctx, 1, 10*time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLink_CloseUnblocksAndDrains(t *testing.T) {
	ctx := context.Background()
	a, b := Link(64)

	require.NoError(t, a.Write(ctx, []byte("OK")))
	require.NoError(t, a.Close())

	// Bytes buffered before the close remain readable.
	got, err := b.Read(ctx, 16, 100*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "OK", string(got))

	// After draining, reads report the closed link.
	_, err = b.Read(ctx, 16, 10*time.Millisecond)
	require.ErrorIs(t, err, errors.ErrLinkClosed)

	// Writes toward the closed endpoint fail too.
	err = b.Write(ctx, []byte("late"))
	require.ErrorIs(t, err, errors.ErrLinkClosed)

	// Close is idempotent.
	require.NoError(t, a.Close())
}

func TestLink_ConcurrentTraffic(t *testing.T) {
	// Both directions carry traffic at once; run with -race.
	ctx := context.Background()
	a, b := Link(16)

	const rounds = 200

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for range rounds {
			_ = a.Write(ctx, []byte("ping"))
		}
	}()

	go func() {
		defer wg.Done()
		var total int
		for total < rounds*4 {
			chunk, err := b.Read(ctx, 8, time.Second)
			if err != nil {
				return
			}
			total += len(chunk)
		}
	}()

	wg.Wait()
	require.Equal(t, 0, b.Buffered())
}
