package dispatcher

import "errors"

var (
	// ErrNoHandler reports an action no namespace claims.
	ErrNoHandler = errors.New("dispatcher: no handler for action")

	// ErrDispatcherStopped reports dispatch after Stop.
	ErrDispatcherStopped = errors.New("dispatcher: dispatcher is stopped")

	// ErrActionCancelled reports a pre-dispatch hook veto.
	ErrActionCancelled = errors.New("dispatcher: action cancelled by hook")

	// ErrTimeout reports a handler past its deadline.
	ErrTimeout = errors.New("dispatcher: handler timeout")

	// ErrPanic reports a contained handler panic.
	ErrPanic = errors.New("dispatcher: handler panic")

	// ErrInvalidAction reports a malformed action.
	ErrInvalidAction = errors.New("dispatcher: invalid action")

	// ErrAsyncNotEnabled reports channel dispatch without AsyncDispatch.
	ErrAsyncNotEnabled = errors.New("dispatcher: async dispatch not enabled")
)
