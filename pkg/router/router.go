// Package router is the key dispatcher for the suggestion popup. It holds the
// popup state (closed, or open with a selection) and maps keys to actions.
package router

import (
	"fmt"

	"github.com/bastiangx/cppcomplete/pkg/suggest"
)

// State of the popup.
type State int

const (
	Idle State = iota
	SuggestionsOpen
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SuggestionsOpen:
		return "open"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Key is an input event as far as the router is concerned.
type Key int

const (
	KeyOther Key = iota
	KeyArrowUp
	KeyArrowDown
	KeyTab
	KeyEnter
	KeyEscape
	KeyCtrlSpace
)

// Action tells the host what to do with a key.
type Action int

const (
	// ActionPassThrough lets the host handle the key as normal input.
	ActionPassThrough Action = iota
	// ActionConsume means the router used the key (selection moved).
	ActionConsume
	// ActionAccept inserts the selected candidate.
	ActionAccept
	// ActionDismiss hides the popup.
	ActionDismiss
	// ActionTrigger requests a forced completion.
	ActionTrigger
)

func (a Action) String() string {
	switch a {
	case ActionPassThrough:
		return "pass"
	case ActionConsume:
		return "consume"
	case ActionAccept:
		return "accept"
	case ActionDismiss:
		return "dismiss"
	case ActionTrigger:
		return "trigger"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Result is the outcome of one key.
type Result struct {
	Action Action
	// Candidate is set for ActionAccept.
	Candidate suggest.Candidate
	// Retrigger asks the host to run a completion after applying the key.
	Retrigger bool
}

// Router is the popup state machine. It is not safe for concurrent use.
type Router struct {
	state      State
	candidates []suggest.Candidate
	selected   int
}

func New() *Router {
	return &Router{}
}

func (r *Router) State() State {
	return r.state
}

// Candidates returns the list shown while open.
func (r *Router) Candidates() []suggest.Candidate {
	return r.candidates
}

// Selected returns the selection index, or -1 when idle.
func (r *Router) Selected() int {
	if r.state != SuggestionsOpen {
		return -1
	}
	return r.selected
}

// Show opens the popup on candidates with the first one selected. An empty
// list closes it instead.
func (r *Router) Show(candidates []suggest.Candidate) {
	if len(candidates) == 0 {
		r.Hide()
		return
	}
	r.state = SuggestionsOpen
	r.candidates = candidates
	r.selected = 0
}

// Hide closes the popup.
func (r *Router) Hide() {
	r.state = Idle
	r.candidates = nil
	r.selected = 0
}

// Handle routes one key. printable reports whether KeyOther produced text.
func (r *Router) Handle(key Key, printable bool) Result {
	if r.state == Idle {
		if key == KeyCtrlSpace {
			return Result{Action: ActionTrigger}
		}
		return Result{Action: ActionPassThrough, Retrigger: key == KeyOther && printable}
	}

	n := len(r.candidates)
	switch key {
	case KeyArrowDown:
		r.selected = (r.selected + 1) % n
		return Result{Action: ActionConsume}
	case KeyArrowUp:
		r.selected = (r.selected - 1 + n) % n
		return Result{Action: ActionConsume}
	case KeyEnter, KeyTab:
		c := r.candidates[r.selected]
		r.Hide()
		return Result{Action: ActionAccept, Candidate: c}
	case KeyEscape:
		r.Hide()
		return Result{Action: ActionDismiss}
	case KeyCtrlSpace:
		return Result{Action: ActionTrigger}
	}
	return Result{Action: ActionPassThrough, Retrigger: true}
}
