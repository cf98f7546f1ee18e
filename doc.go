// Package modemlink implements both peers of a point-to-point, line-oriented
// AT-command dialect over a shared full-duplex byte transport: a responder
// (the simulated modem, accumulating lines and emitting canned replies) and a
// driver (the simulated controller, cycling through scripted commands with a
// bounded wait for each reply).
//
// # Basic Usage
//
// Run both peers over an in-memory flow-controlled link:
//
//	ctx := context.Background()
//	ex, err := modemlink.NewExerciser(
//	    modemlink.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ex.Close()
//
//	// Runs the responder and driver loops until ctx is done.
//	if err := ex.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
//	    log.Fatal(err)
//	}
//
// # One-Shot Probes
//
// For a single command against an existing transport, use Probe:
//
//	outcome, err := modemlink.Probe(ctx, transport, "AT+CSQ")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if outcome.TimedOut {
//	    fmt.Println("no response")
//	} else {
//	    fmt.Printf("%q\n", outcome.Reply)
//	}
//
// # Vocabulary
//
// The responder's fixed vocabulary is case-sensitive and byte-exact:
//
//	"AT"       -> "\r\nOK\r\n"
//	"AT+CSQ"   -> "\r\n+CSQ: 20,99\r\nOK\r\n"
//	anything   -> "\r\nERROR\r\n"
//
// The CR/LF sequences are part of the reply payload, not transport framing.
// Input lines terminate on CR or LF; empty lines are discarded, so CRLF
// pairs collapse to one dispatch. A line longer than the configured buffer
// is dropped whole with no reply at all, matching the simulated device:
// real modems would answer a truncated command or an explicit error, so do
// not rely on that silence when pointing the driver at real hardware.
//
// # Transports
//
// The engine only sees the Transport interface. Link() builds the in-memory
// full-duplex channel with modeled RTS/CTS back-pressure (writes delay, never
// drop, while the receiver is not ready). NewStream adapts any io.ReadWriter,
// so a net.Conn or an opened serial device plugs in unchanged. Custom
// implementations can be injected anywhere a Transport is accepted.
package modemlink
