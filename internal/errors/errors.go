// Package errors defines the machine-readable error taxonomy shared by
// services and handlers. Every failure a caller can act on is a DomainError
// with a stable code; anything else is an infrastructure failure.
package errors

// DomainError is a business failure with a machine-readable code and a
// human-readable message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is allows errors.Is matching on the code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
