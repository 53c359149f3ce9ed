package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/estuary/kachaka-core/internal/connection"
	"github.com/estuary/kachaka-core/internal/kachakapb"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.FastInterval = 10 * time.Millisecond
	cfg.SlowInterval = 20 * time.Millisecond
	cfg.PollInterval = 5 * time.Millisecond
	cfg.RetryDelay = 5 * time.Millisecond
	cfg.RegistrationWaitBudget = 50 * time.Millisecond
	cfg.RegistrationPollInterval = 5 * time.Millisecond
	return cfg
}

func newTestController(fake *kachakapb.Fake) (*Controller, *connection.Connection) {
	conn := connection.NewPool(connection.Config{Client: fake, DefaultTimeout: time.Second}).Acquire("robot")
	return New(conn, testConfig()), conn
}

func TestExecuteSucceeds(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.StartResult = kachakapb.CommandResult{Success: true}
	c, _ := newTestController(fake)

	done := make(chan struct{})
	go func() {
		// Flip to completed shortly after start registers, simulating the
		// robot finishing the move.
		time.Sleep(20 * time.Millisecond)
		fake.CurrentState = kachakapb.CommandStateUnspecified
		id := fake.CurrentCommandId
		fake.LastResult = kachakapb.CommandResult{Success: true}
		fake.LastResultId = id
		close(done)
	}()

	result := c.ReturnHome(context.Background(), time.Second, CommandOptions{})
	<-done
	require.True(t, result.OK)
	require.Equal(t, "return_home", result.Action)
}

func TestExecuteRecoversFromStaleCommandIdMismatch(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.StartResult = kachakapb.CommandResult{Success: true}
	c, _ := newTestController(fake)

	go func() {
		time.Sleep(15 * time.Millisecond)
		fake.CurrentState = kachakapb.CommandStateUnspecified
		fake.LastResult = kachakapb.CommandResult{Success: false}
		fake.LastResultId = "cmd-old"

		time.Sleep(20 * time.Millisecond)
		fake.LastResult = kachakapb.CommandResult{Success: true}
		fake.LastResultId = fake.CurrentCommandId
	}()

	result := c.ReturnHome(context.Background(), time.Second, CommandOptions{})
	require.True(t, result.OK)
}

func TestExecuteReturnsDisconnectedOnGateTimeout(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.PingErr = assertErr
	c, conn := newTestController(fake)
	conn.StartMonitoring(5*time.Millisecond, nil)
	defer conn.StopMonitoring()
	require.True(t, conn.WaitForState(connection.Disconnected, time.Second))

	result := c.ReturnHome(context.Background(), 30*time.Millisecond, CommandOptions{})
	require.False(t, result.OK)
	require.Equal(t, "DISCONNECTED", result.Error)
	require.Equal(t, "return_home", result.Action)
}

func TestShelfDropDetectedDuringMoveShelf(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.Shelves = []kachakapb.Shelf{{Id: "S01", Name: "S01"}}
	fake.Locations = []kachakapb.Location{{Id: "L01", Name: "L01"}}
	fake.StartResult = kachakapb.CommandResult{Success: true}
	fake.MovingShelfId = "S01"
	c, _ := newTestController(fake)

	var dropped string
	c.SetOnShelfDropped(func(shelfID string) { dropped = shelfID })

	go func() {
		time.Sleep(10 * time.Millisecond)
		fake.MovingShelfId = ""
		time.Sleep(10 * time.Millisecond)
		fake.CurrentState = kachakapb.CommandStateUnspecified
		fake.LastResult = kachakapb.CommandResult{Success: true}
		fake.LastResultId = fake.CurrentCommandId
	}()

	result := c.MoveShelf(context.Background(), "S01", "L01", time.Second, CommandOptions{})
	require.True(t, result.OK)
	require.Equal(t, "S01", dropped)
	require.True(t, c.State().ShelfDropped)
}

func TestEmergencyStopReturnsPromptlyAgainstUnreachableTarget(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.PingErr = assertErr
	c, _ := newTestController(fake)

	start := time.Now()
	_ = c.Stop(context.Background())
	require.Less(t, time.Since(start), time.Second)
}

var assertErr = &fakeError{"unreachable"}

type fakeError struct{ msg string }

func (e *fakeError) Error() string { return e.msg }
