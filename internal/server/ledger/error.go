package ledger

// Error wraps a failed ledger call. The node's message is preserved
// verbatim inside Err: the gateway cannot distinguish categories of ledger
// failure beyond pattern-matching known phrases, so the raw text is the
// operator's main diagnostic.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "ledger: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
