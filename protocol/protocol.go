// Package protocol implements the plain-text serial link: incoming bytes are
// framed into lines, outgoing responses are queued for a non-blocking
// transmitter. There is no framing, checksum or retransmission.
package protocol

// Version represents the firmware version
const Version = "0.1.0"

// Link constants
const (
	// LineCapacity bounds one input line including its terminator slot.
	// The longest legal command ("speed 65535") fits with room to spare.
	LineCapacity = 16

	// TxQueueSize is the response queue; large enough for the help text
	TxQueueSize = 512
)

// IsTerminator reports whether b ends a line
func IsTerminator(b byte) bool {
	return b == 0 || b == '\n' || b == '\r'
}
