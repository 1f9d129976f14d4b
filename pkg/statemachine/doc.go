// Package statemachine is a small finite-state machine with guarded
// transitions and side-effect actions.
//
// The agent models its lifecycle (uninitialized → initializing → active) with
// it. A guard on the init transition rejects a config the agent cannot run
// with, the action on the ready transition subscribes to host signals, and a
// duplicate Init is simply a transition that does not exist.
//
// Transitions are looked up in a map[from][event][]Transition. When several
// transitions share from/event, the first whose guards all pass wins. Actions
// run in order before the state changes; the first failing action aborts the
// transition and leaves the current state untouched.
//
// # Usage
//
//	const (
//	    Idle   = statemachine.State("idle")
//	    Active = statemachine.State("active")
//	    Start  = statemachine.Event("start")
//	)
//
//	sm := statemachine.MustNew(Idle,
//	    statemachine.WithTransition(Idle, Active, Start,
//	        statemachine.WithGuard(func(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
//	            id, _ := data.(string)
//	            return id != ""
//	        }),
//	        statemachine.WithAction(subscribe),
//	    ),
//	)
//	err := sm.Fire(ctx, Start, "w1")
//
// Reset returns to the initial state, for example after a failed start.
//
// # Errors
//
// Fire returns *ErrNoTransitionAvailable when nothing is defined for the
// current state/event pair and *ErrTransitionRejected when guards refused
// every candidate. Use IsNoTransitionAvailableError / IsTransitionRejectedError
// to tell them apart.
package statemachine
