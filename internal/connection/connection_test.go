package connection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/estuary/kachaka-core/internal/kachakapb"
)

func fakeConfig(fake *kachakapb.Fake) Config {
	return Config{Client: fake, DefaultTimeout: time.Second}
}

func TestCanonicalTargetAppendsDefaultPort(t *testing.T) {
	require.Equal(t, "1.2.3.4:26400", CanonicalTarget("1.2.3.4"))
	require.Equal(t, "1.2.3.4:9000", CanonicalTarget("1.2.3.4:9000"))
}

func TestPingSucceedsAgainstHealthyFake(t *testing.T) {
	fake := kachakapb.NewFake()
	c := newConnection("robot", fakeConfig(fake))
	result := c.Ping(context.Background())
	require.True(t, result.OK)
	require.Equal(t, fake.Serial, result.Serial)
}

func TestPingFailsAgainstUnreachableFake(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.PingErr = errors.New("unreachable")
	c := newConnection("robot", fakeConfig(fake))
	result := c.Ping(context.Background())
	require.False(t, result.OK)
}

func TestResolveShelfAndLocationByNameAndId(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.Shelves = []kachakapb.Shelf{{Id: "S01", Name: "kitchen-shelf"}}
	fake.Locations = []kachakapb.Location{{Id: "L01", Name: "charger"}}
	c := newConnection("robot", fakeConfig(fake))

	require.NoError(t, c.EnsureResolver(context.Background()))
	require.Equal(t, "S01", c.ResolveShelf("kitchen-shelf"))
	require.Equal(t, "S01", c.ResolveShelf("S01"))
	require.Equal(t, "unknown-shelf", c.ResolveShelf("unknown-shelf"))

	require.Equal(t, "L01", c.ResolveLocation("charger"))
	require.Equal(t, "L01", c.ResolveLocation("L01"))
}

func TestEnsureResolverOnlyFetchesOnce(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.Shelves = []kachakapb.Shelf{{Id: "S01", Name: "a"}}
	c := newConnection("robot", fakeConfig(fake))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, c.EnsureResolver(context.Background()))
		}()
	}
	wg.Wait()
	require.Equal(t, "S01", c.ResolveShelf("a"))
}

func TestHealthMonitorTransitionsToDisconnectedAndBack(t *testing.T) {
	fake := kachakapb.NewFake()
	c := newConnection("robot", fakeConfig(fake))

	var mu sync.Mutex
	var transitions []State
	listener := StateListenerFunc(func(_, next State) {
		mu.Lock()
		transitions = append(transitions, next)
		mu.Unlock()
	})

	c.StartMonitoring(5*time.Millisecond, listener)
	defer c.StopMonitoring()

	fake.PingErr = errors.New("cable unplugged")
	require.True(t, c.WaitForState(Disconnected, time.Second))

	fake.PingErr = nil
	require.True(t, c.WaitForState(Connected, time.Second))

	mu.Lock()
	defer mu.Unlock()
	require.Contains(t, transitions, Disconnected)
	require.Contains(t, transitions, Connected)
}

func TestWaitForStateTimesOutWhenStateNeverChanges(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.PingErr = errors.New("down")
	c := newConnection("robot", fakeConfig(fake))
	c.StartMonitoring(5*time.Millisecond, nil)
	defer c.StopMonitoring()

	require.False(t, c.WaitForState(Connected, 30*time.Millisecond))
}

func TestStartMonitoringTwiceIsNoOp(t *testing.T) {
	fake := kachakapb.NewFake()
	c := newConnection("robot", fakeConfig(fake))
	c.StartMonitoring(5*time.Millisecond, nil)
	c.StartMonitoring(5*time.Millisecond, nil)
	c.StopMonitoring()
}
