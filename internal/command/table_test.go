package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTable_Vocabulary(t *testing.T) {
	table := DefaultTable()

	require.Equal(t, "\r\nOK\r\n", string(table.Respond([]byte("AT"))))
	require.Equal(t, "\r\n+CSQ: 20,99\r\nOK\r\n", string(table.Respond([]byte("AT+CSQ"))))
	require.Equal(t, "\r\nERROR\r\n", string(table.Respond([]byte("AT+UNKNOWN"))))
}

func TestTable_MappingIsTotal(t *testing.T) {
	table := DefaultTable()

	// Every line yields exactly one reply, including malformed ones.
	for _, input := range []string{"", "at", "AT ", " AT", "ATAT", "+CSQ", "\x00\xff"} {
		reply := table.Respond([]byte(input))
		require.Equal(t, "\r\nERROR\r\n", string(reply), "input %q", input)
	}
}

func TestTable_CaseSensitive(t *testing.T) {
	table := DefaultTable()

	require.Equal(t, "\r\nERROR\r\n", string(table.Respond([]byte("at"))))
	require.Equal(t, "\r\nERROR\r\n", string(table.Respond([]byte("At+Csq"))))
}

func TestTable_Deterministic(t *testing.T) {
	table := DefaultTable()

	first := table.Respond([]byte("AT+CSQ"))
	for range 10 {
		require.Equal(t, first, table.Respond([]byte("AT+CSQ")))
	}
}

func TestTable_FirstMatchWins(t *testing.T) {
	table := NewTable([]Entry{
		{Pattern: []byte("AT"), Reply: []byte("first")},
		{Pattern: []byte("AT"), Reply: []byte("second")},
	}, []byte("default"))

	require.Equal(t, "first", string(table.Respond([]byte("AT"))))
}

func TestTable_CustomDefault(t *testing.T) {
	table := NewTable(nil, []byte("\r\nNOPE\r\n"))

	require.Equal(t, 0, table.Len())
	require.Equal(t, "\r\nNOPE\r\n", string(table.Respond([]byte("anything"))))
}

func TestNewTable_CopiesEntries(t *testing.T) {
	pattern := []byte("AT+GMR")
	reply := []byte("\r\n1.0.0\r\nOK\r\n")
	table := NewTable([]Entry{{Pattern: pattern, Reply: reply}}, []byte("\r\nERROR\r\n"))

	// Mutating the caller's slices must not reach into the table.
	pattern[0] = 'x'
	reply[2] = 'x'

	require.Equal(t, "\r\n1.0.0\r\nOK\r\n", string(table.Respond([]byte("AT+GMR"))))
}

func TestTable_EmptyLineOnlyMatchesEmptyPattern(t *testing.T) {
	table := NewTable([]Entry{
		{Pattern: []byte{}, Reply: []byte("empty")},
	}, []byte("default"))

	require.Equal(t, "empty", string(table.Respond(nil)))
	require.Equal(t, "default", string(table.Respond([]byte("x"))))
}
