// Package validation collects field-level validation messages into the
// `{field: [messages]}` bag the API returns on 422 responses. Every rule is
// checked so clients always receive the complete set of failures, never
// just the first.
package validation

import "net/mail"

// Errors maps a field name to the messages recorded against it.
type Errors map[string][]string

// Error is returned by services when input validation fails. It carries the
// full bag so handlers can render it without reconstruction.
type Error struct {
	Fields Errors
}

func (e *Error) Error() string {
	return "validation failed"
}

// Bag accumulates field errors during a validation pass.
type Bag struct {
	errs Errors
}

func NewBag() *Bag {
	return &Bag{errs: Errors{}}
}

// Add records a message against a field.
func (b *Bag) Add(field, message string) {
	b.errs[field] = append(b.errs[field], message)
}

// Failed reports whether any message was recorded.
func (b *Bag) Failed() bool {
	return len(b.errs) > 0
}

// Err returns a *Error carrying the bag, or nil when validation passed.
func (b *Bag) Err() error {
	if !b.Failed() {
		return nil
	}
	return &Error{Fields: b.errs}
}

// Fields exposes the accumulated bag.
func (b *Bag) Fields() Errors {
	return b.errs
}

// ValidEmail reports whether the address parses as a bare RFC 5322 address.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
