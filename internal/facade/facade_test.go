package facade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/estuary/kachaka-core/internal/connection"
	"github.com/estuary/kachaka-core/internal/kachakapb"
)

func newTestFacade(fake *kachakapb.Fake) *Facade {
	pool := connection.NewPool(connection.Config{Client: fake})
	return New(pool)
}

func TestPingRobotReportsHealthyFake(t *testing.T) {
	fake := kachakapb.NewFake()
	f := newTestFacade(fake)

	result := f.PingRobot(context.Background(), "robot")
	require.True(t, result.OK)
}

func TestRobotForIsMemoizedPerTarget(t *testing.T) {
	fake := kachakapb.NewFake()
	f := newTestFacade(fake)

	a := f.robotFor("1.2.3.4")
	b := f.robotFor("1.2.3.4:26400")
	require.Same(t, a, b)
}

func TestMoveToLocationRejectedStartSurfacesErrorCode(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.Locations = []kachakapb.Location{{Id: "L01", Name: "kitchen"}}
	fake.StartResult = kachakapb.CommandResult{Success: false, ErrorCode: 7}
	f := newTestFacade(fake)
	require.NoError(t, f.robotFor("robot").conn.EnsureResolver(context.Background()))

	result := f.MoveToLocation(context.Background(), "robot", "kitchen")
	require.False(t, result.OK)
	require.Equal(t, int32(7), result.ErrorCode)
}

func TestDisconnectRobotDropsMemoizedEntry(t *testing.T) {
	fake := kachakapb.NewFake()
	f := newTestFacade(fake)
	a := f.robotFor("robot")
	f.DisconnectRobot("robot")
	b := f.robotFor("robot")
	require.NotSame(t, a, b)
}
