package engine

// #region imports
import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// #endregion

// #region states

// Lifecycle state identifiers. Category and suite results expose their
// terminal state through CategoryResult.Complete and SuiteResult.Termination;
// the machines exist to make illegal transitions impossible in the run loop.
const (
	statePending          = "pending"
	stateRunning          = "running"
	stateSealed           = "sealed"
	stateSealedIncomplete = "sealed_incomplete"
	stateCompleted        = "completed"
	stateEarlyTerminated  = "early_terminated"
	stateAborted          = "aborted_unhealthy_server"
)

// Lifecycle events.
const (
	eventStart     = "start"
	eventSeal      = "seal"
	eventHalt      = "halt"
	eventComplete  = "complete"
	eventTerminate = "terminate"
	eventAbort     = "abort"
)

// #endregion

// #region fsm

type lifecycleCtx struct {
	ID string
}

// fsm is a thin wrapper over a statekit interpreter shared by the category
// and suite machines.
type fsm struct {
	interp *statekit.Interpreter[lifecycleCtx]
}

func (m *fsm) send(event string) error {
	before := m.current()
	m.interp.Send(statekit.Event{Type: statekit.EventType(event)})
	if m.current() == before {
		return fmt.Errorf("event %q is not valid in state %q", event, before)
	}
	return nil
}

func (m *fsm) current() string {
	return string(m.interp.State().Value)
}

// #endregion

// #region category-fsm

// newCategoryFSM builds the per-category machine:
// pending → running → {sealed, sealed_incomplete}.
func newCategoryFSM(id string) (*fsm, error) {
	builder := statekit.NewMachine[lifecycleCtx]("category-lifecycle").
		WithInitial(statePending).
		WithContext(lifecycleCtx{ID: id})

	builder.State(statePending).
		On(eventStart).Target(stateRunning).
		Done()
	builder.State(stateRunning).
		On(eventSeal).Target(stateSealed).
		On(eventHalt).Target(stateSealedIncomplete).
		Done()
	builder.State(stateSealed).Done()
	builder.State(stateSealedIncomplete).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build category machine: %w", err)
	}
	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return &fsm{interp: interp}, nil
}

// #endregion

// #region suite-fsm

// newSuiteFSM builds the per-suite machine:
// pending → running → {completed, early_terminated}; the unhealthy abort is
// reachable from pending because no phrase has been sent yet.
func newSuiteFSM(id string) (*fsm, error) {
	builder := statekit.NewMachine[lifecycleCtx]("suite-lifecycle").
		WithInitial(statePending).
		WithContext(lifecycleCtx{ID: id})

	builder.State(statePending).
		On(eventStart).Target(stateRunning).
		On(eventAbort).Target(stateAborted).
		Done()
	builder.State(stateRunning).
		On(eventComplete).Target(stateCompleted).
		On(eventTerminate).Target(stateEarlyTerminated).
		Done()
	builder.State(stateCompleted).Done()
	builder.State(stateEarlyTerminated).Done()
	builder.State(stateAborted).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build suite machine: %w", err)
	}
	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return &fsm{interp: interp}, nil
}

// #endregion
