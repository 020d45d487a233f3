// Package contact implements the click-to-reveal, click-to-copy email
// interaction shown in the site footer.
package contact

import "fmt"

// State is the visibility of the contact email. Copied implies revealed, so
// a copied-but-hidden email cannot be represented.
type State uint8

const (
	Hidden State = iota
	Revealed
	Copied
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Copied:
		return "copied"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// IsRevealed reports whether the email is visible.
func (s State) IsRevealed() bool { return s == Revealed || s == Copied }

// WasCopied reports whether the copy confirmation should be shown.
func (s State) WasCopied() bool { return s == Copied }

// ParseState converts a persisted value back into a State. Unknown values
// fall back to Hidden.
func ParseState(v any) State {
	var n int
	switch x := v.(type) {
	case State:
		n = int(x)
	case int:
		n = x
	case int64:
		n = int(x)
	case uint8:
		n = int(x)
	default:
		return Hidden
	}
	if n < int(Hidden) || n > int(Copied) {
		return Hidden
	}
	return State(n)
}

// Clipboard receives copy requests. Requests are fire-and-forget: no result
// flows back into the state machine.
type Clipboard interface {
	Copy(text string)
}

// ClipboardFunc adapts a function to Clipboard.
type ClipboardFunc func(text string)

// Copy implements Clipboard.
func (f ClipboardFunc) Copy(text string) { f(text) }

// Reveal drives the state for one visitor.
type Reveal struct {
	state State
	email string
	clip  Clipboard
}

// New returns a Reveal in the Hidden state.
func New(email string, clip Clipboard) *Reveal {
	return Restore(Hidden, email, clip)
}

// Restore returns a Reveal resumed at state.
func Restore(state State, email string, clip Clipboard) *Reveal {
	return &Reveal{state: state, email: email, clip: clip}
}

// State returns the current state.
func (r *Reveal) State() State { return r.state }

// Email returns the configured address.
func (r *Reveal) Email() string { return r.email }

// Toggle shows the email when hidden and hides it otherwise. Showing always
// starts from the uncopied state.
func (r *Reveal) Toggle() State {
	if r.state.IsRevealed() {
		r.state = Hidden
	} else {
		r.state = Revealed
	}
	return r.state
}

// CopyEmail asks the clipboard to copy the email and marks it copied. The
// transition is optimistic: platform failures are not observed. It does
// nothing while the email is hidden and reports whether a copy was issued.
func (r *Reveal) CopyEmail() bool {
	if !r.state.IsRevealed() {
		return false
	}
	if r.clip != nil {
		r.clip.Copy(r.email)
	}
	r.state = Copied
	return true
}
