// Package command implements the AT command vocabulary: classification of
// accumulated lines and generation of the canned reply for each.
package command

import "bytes"

// Entry is one immutable pattern/reply pair in the command table. Pattern is
// matched byte-for-byte, case-sensitive, against a complete accumulated line
// (terminator already stripped).
type Entry struct {
	Pattern []byte
	Reply   []byte
}

// Table maps accumulated lines to reply byte sequences. Lookup walks the
// entries in order and the first exact match wins; a line matching no entry
// gets the default reply. The mapping is total: every line yields exactly one
// reply.
//
// Tables are immutable after construction and safe for concurrent use.
type Table struct {
	entries      []Entry
	defaultReply []byte
}

// Canned replies for the fixed vocabulary. The CR/LF sequences are part of
// the reply payload on the wire, not transport framing.
var (
	replyOK    = []byte("\r\nOK\r\n")
	replyCSQ   = []byte("\r\n+CSQ: 20,99\r\nOK\r\n")
	replyError = []byte("\r\nERROR\r\n")
)

// NewTable builds a table from explicit entries and a default reply. Entry
// patterns and replies are copied so callers cannot mutate the table through
// retained slices.
func NewTable(entries []Entry, defaultReply []byte) *Table {
	t := &Table{
		entries:      make([]Entry, 0, len(entries)),
		defaultReply: append([]byte(nil), defaultReply...),
	}
	for _, e := range entries {
		t.entries = append(t.entries, Entry{
			Pattern: append([]byte(nil), e.Pattern...),
			Reply:   append([]byte(nil), e.Reply...),
		})
	}

	return t
}

// DefaultTable returns the fixed vocabulary of the simulated modem:
//
//	"AT"       -> "\r\nOK\r\n"
//	"AT+CSQ"   -> "\r\n+CSQ: 20,99\r\nOK\r\n"  (rssi=20, ber=99 "unknown")
//	anything   -> "\r\nERROR\r\n"
func DefaultTable() *Table {
	return NewTable([]Entry{
		{Pattern: []byte("AT"), Reply: replyOK},
		{Pattern: []byte("AT+CSQ"), Reply: replyCSQ},
	}, replyError)
}

// Respond classifies line and returns its reply bytes. The returned slice is
// owned by the table; callers must not modify it.
func (t *Table) Respond(line []byte) []byte {
	for i := range t.entries {
		if bytes.Equal(t.entries[i].Pattern, line) {
			return t.entries[i].Reply
		}
	}

	return t.defaultReply
}

// Len returns the number of explicit entries (the default reply is implicit).
func (t *Table) Len() int {
	return len(t.entries)
}
