// ABOUTME: Sink is the ordered event channel for one answer exchange
// ABOUTME: Exactly one terminal call per exchange: Done, NoContext, or Error
package answer

// Sink receives the event stream for one question. Implementations must
// be safe for concurrent use: keep-alive signals arrive from a separate
// goroutine while tokens are being written.
type Sink interface {
	// Token delivers one answer fragment in generation order.
	Token(text string) error

	// Done terminates the exchange successfully.
	Done() error

	// NoContext terminates the exchange when retrieval found nothing
	// relevant. A valid business outcome, not a failure.
	NoContext(message string) error

	// Error terminates the exchange after a failure.
	Error(message string) error

	// KeepAlive emits a no-op signal so intermediaries keep the
	// connection open during slow generation. Ignorable by clients.
	KeepAlive() error
}
