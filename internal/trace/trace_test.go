package trace

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewID_Unique(t *testing.T) {
	id1 := NewID()
	id2 := NewID()

	require.NotEmpty(t, id1)
	require.NotEmpty(t, id2)
	require.NotEqual(t, id1, id2)
}

func TestRecorder_RecordAndRecent(t *testing.T) {
	r := NewRecorder(nil, 8)

	id := NewID()
	r.Record(id, KindSend, "driver", []byte("AT"))
	r.Record(id, KindReply, "driver", []byte("\r\nOK\r\n"))

	recent := r.Recent(10)
	require.Len(t, recent, 2)

	// Newest first, both stamped with the exchange's ID.
	require.Equal(t, KindReply, recent[0].Kind)
	require.Equal(t, KindSend, recent[1].Kind)
	require.Equal(t, id, recent[0].ID)
	require.Equal(t, id, recent[1].ID)
	require.Equal(t, "AT", string(recent[1].Payload))
	require.EqualValues(t, 2, r.Total())
}

func TestRecorder_RingEvictsOldest(t *testing.T) {
	r := NewRecorder(nil, 4)

	for i := range 10 {
		r.Record(NewID(), KindSend, "driver", []byte{byte('0' + i)})
	}

	recent := r.Recent(10)
	require.Len(t, recent, 4)
	require.Equal(t, "9", string(recent[0].Payload))
	require.Equal(t, "6", string(recent[3].Payload))
	require.EqualValues(t, 10, r.Total())
}

func TestRecorder_PayloadIsCopied(t *testing.T) {
	r := NewRecorder(nil, 4)

	payload := []byte("AT")
	r.Record(NewID(), KindSend, "driver", payload)
	payload[0] = 'x'

	require.Equal(t, "AT", string(r.Recent(1)[0].Payload))
}

func TestRecorder_NilReceiverIsSafe(t *testing.T) {
	var r *Recorder

	r.Record(NewID(), KindSend, "driver", nil)
	require.Nil(t, r.Recent(5))
	require.Zero(t, r.Total())
}

func TestRecorder_ConcurrentRecord(t *testing.T) {
	// Both loops record concurrently; run with -race.
	r := NewRecorder(nil, 32)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				r.Record(NewID(), KindReply, "driver", []byte("ok"))
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 400, r.Total())
	require.Len(t, r.Recent(100), 32)
}
