package fsm

import (
	"context"
	"sync"
	"testing"

	"github.com/librescoot/librefsm"
)

type recordingActions struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingActions) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *recordingActions) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingActions) EnterRunning(c *librefsm.Context) error {
	r.record("enter-running")
	return nil
}

func (r *recordingActions) ExitRunning(c *librefsm.Context) error {
	r.record("exit-running")
	return nil
}

func (r *recordingActions) EnterShuttingDown(c *librefsm.Context) error {
	r.record("enter-shutting-down")
	return nil
}

func (r *recordingActions) EnterStopped(c *librefsm.Context) error {
	r.record("enter-stopped")
	return nil
}

func (r *recordingActions) OnShutdownTimeout(c *librefsm.Context) error {
	r.record("shutdown-timeout")
	return nil
}

func startMachine(t *testing.T, actions Actions) Machine {
	t.Helper()
	machine, err := NewDefinition(actions).Build()
	if err != nil {
		t.Fatalf("Failed to build FSM: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := machine.Start(ctx); err != nil {
		t.Fatalf("Failed to start FSM: %v", err)
	}
	return machine
}

func TestLifecycle(t *testing.T) {
	actions := &recordingActions{}
	machine := startMachine(t, actions)

	if machine.CurrentState() != StateInit {
		t.Fatalf("Expected init, got %s", machine.CurrentState())
	}

	if err := machine.SendSync(librefsm.Event{ID: EvConfigLoaded}); err != nil {
		t.Fatalf("config-loaded: %v", err)
	}
	if machine.CurrentState() != StateRunning {
		t.Fatalf("Expected running, got %s", machine.CurrentState())
	}

	if err := machine.SendSync(librefsm.Event{ID: EvShutdown}); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if machine.CurrentState() != StateShuttingDown {
		t.Fatalf("Expected shutting-down, got %s", machine.CurrentState())
	}

	if err := machine.SendSync(librefsm.Event{ID: EvFlushComplete}); err != nil {
		t.Fatalf("flush-complete: %v", err)
	}

	if machine.CurrentState() != StateStopped {
		t.Fatalf("Expected stopped, got %s", machine.CurrentState())
	}

	want := []string{"enter-running", "exit-running", "enter-shutting-down", "enter-stopped"}
	got := actions.Calls()
	if len(got) != len(want) {
		t.Fatalf("Expected calls %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Call %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestShutdownTimeoutStops(t *testing.T) {
	actions := &recordingActions{}
	machine := startMachine(t, actions)

	machine.SendSync(librefsm.Event{ID: EvConfigLoaded})
	machine.SendSync(librefsm.Event{ID: EvShutdown})

	// The flush never reports back; the timeout event ends the shutdown.
	machine.SendSync(librefsm.Event{ID: EvShutdownTimeout})

	if machine.CurrentState() != StateStopped {
		t.Fatalf("Expected stopped, got %s", machine.CurrentState())
	}
	calls := actions.Calls()
	if calls[len(calls)-2] != "shutdown-timeout" {
		t.Errorf("Expected timeout action before stopping, got %v", calls)
	}
}

func TestShutdownFromInit(t *testing.T) {
	actions := &recordingActions{}
	machine := startMachine(t, actions)

	if err := machine.SendSync(librefsm.Event{ID: EvShutdown}); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if machine.CurrentState() != StateStopped {
		t.Fatalf("Expected stopped, got %s", machine.CurrentState())
	}
	if calls := actions.Calls(); len(calls) != 1 || calls[0] != "enter-stopped" {
		t.Errorf("Expected only enter-stopped, got %v", calls)
	}
}

func TestConfigLoadedIgnoredWhileRunning(t *testing.T) {
	actions := &recordingActions{}
	machine := startMachine(t, actions)

	machine.SendSync(librefsm.Event{ID: EvConfigLoaded})
	machine.SendSync(librefsm.Event{ID: EvConfigLoaded})

	if machine.CurrentState() != StateRunning {
		t.Fatalf("Expected running, got %s", machine.CurrentState())
	}
	if calls := actions.Calls(); len(calls) != 1 {
		t.Errorf("Expected a single enter-running, got %v", calls)
	}
}
