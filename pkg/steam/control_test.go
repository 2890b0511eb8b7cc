package steam

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeRunner scripts command output per executable name and records what ran.
type fakeRunner struct {
	outputs map[string][]string
	ran     [][]string
	started [][]string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.ran = append(r.ran, append([]string{name}, args...))
	queue := r.outputs[name]
	if len(queue) == 0 {
		return nil, errors.New("command failed")
	}
	out := queue[0]
	r.outputs[name] = queue[1:]
	return []byte(out), nil
}

func (r *fakeRunner) Start(name string, args ...string) error {
	r.started = append(r.started, append([]string{name}, args...))
	return nil
}

func newTestController(r Runner, goos string, getenv func(string) string) *Controller {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Controller{run: r, goos: goos, getenv: getenv, wait: 2 * time.Second}
}

func TestController_IsRunning(t *testing.T) {
	r := &fakeRunner{outputs: map[string][]string{"pgrep": {"1234\n", ""}}}
	c := newTestController(r, "linux", nil)

	if !c.IsRunning(context.Background()) {
		t.Error("IsRunning() = false with a pgrep match")
	}
	if c.IsRunning(context.Background()) {
		t.Error("IsRunning() = true with empty pgrep output")
	}

	if r.ran[0][0] != "pgrep" || r.ran[0][1] != "-x" || r.ran[0][2] != "steam" {
		t.Errorf("IsRunning() ran %v, want pgrep -x steam", r.ran[0])
	}
}

func TestController_IsRunning_Windows(t *testing.T) {
	r := &fakeRunner{outputs: map[string][]string{"tasklist": {"steam.exe  1234 Console\n", "INFO: No tasks\n"}}}
	c := newTestController(r, "windows", nil)

	if !c.IsRunning(context.Background()) {
		t.Error("IsRunning() = false with steam.exe in tasklist output")
	}
	if c.IsRunning(context.Background()) {
		t.Error("IsRunning() = true without steam.exe in tasklist output")
	}
}

func TestController_Restart(t *testing.T) {
	r := &fakeRunner{outputs: map[string][]string{
		// running, then shutdown, then gone
		"pgrep": {"1234\n", ""},
		"steam": {""},
	}}
	c := newTestController(r, "linux", nil)

	if err := c.Restart(context.Background()); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}

	var shutdown bool
	for _, cmd := range r.ran {
		if cmd[0] == "steam" && len(cmd) > 1 && cmd[1] == "-shutdown" {
			shutdown = true
		}
	}
	if !shutdown {
		t.Error("Restart() never ran steam -shutdown")
	}

	if len(r.started) != 1 || r.started[0][0] != "steam" {
		t.Errorf("Restart() started %v, want steam", r.started)
	}
}

func TestController_Restart_GamescopeSkipsLaunch(t *testing.T) {
	r := &fakeRunner{outputs: map[string][]string{
		"pgrep": {"1234\n", ""},
		"steam": {""},
	}}
	getenv := func(key string) string {
		if key == "XDG_CURRENT_DESKTOP" {
			return "gamescope"
		}
		return ""
	}
	c := newTestController(r, "linux", getenv)

	if err := c.Restart(context.Background()); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}

	// Gaming Mode relaunches Steam itself.
	if len(r.started) != 0 {
		t.Errorf("Restart() started %v, want nothing under gamescope", r.started)
	}
}

func TestController_Restart_NotRunning(t *testing.T) {
	r := &fakeRunner{outputs: map[string][]string{"pgrep": {""}}}
	c := newTestController(r, "linux", nil)

	if err := c.Restart(context.Background()); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}

	if len(r.started) != 1 || r.started[0][0] != "steam" {
		t.Errorf("Restart() started %v, want steam", r.started)
	}
}

func TestController_Restart_Timeout(t *testing.T) {
	r := &fakeRunner{outputs: map[string][]string{
		"pgrep": {"1234\n", "1234\n", "1234\n", "1234\n", "1234\n"},
		"steam": {""},
	}}
	c := newTestController(r, "linux", nil)
	c.wait = 100 * time.Millisecond

	err := c.Restart(context.Background())
	if err == nil {
		t.Fatal("Restart() should fail when steam never exits")
	}
}

func TestController_Restart_ContextCancelled(t *testing.T) {
	r := &fakeRunner{outputs: map[string][]string{
		"pgrep": {"1234\n", "1234\n", "1234\n"},
		"steam": {""},
	}}
	c := newTestController(r, "linux", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Restart(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Restart() error = %v, want context.Canceled", err)
	}
}
