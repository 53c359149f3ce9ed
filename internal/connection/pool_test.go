package connection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquireReturnsSameHandleForSameTarget(t *testing.T) {
	p := NewPool(Config{})
	a := p.Acquire("1.2.3.4")
	b := p.Acquire("1.2.3.4:26400")
	require.Same(t, a, b)
}

func TestAcquireConcurrentCallersConverge(t *testing.T) {
	p := NewPool(Config{})

	const n = 50
	results := make([]*Connection, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Acquire("robot.local")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		require.Same(t, results[0], results[i])
	}
}

func TestAcquireDifferentTargetsGetDifferentHandles(t *testing.T) {
	p := NewPool(Config{})
	a := p.Acquire("robot-a")
	b := p.Acquire("robot-b")
	require.NotSame(t, a, b)
}

func TestRemoveEvictsEntry(t *testing.T) {
	p := NewPool(Config{})
	a := p.Acquire("robot")
	p.Remove("robot")
	b := p.Acquire("robot")
	require.NotSame(t, a, b)
}

func TestClearEvictsEverything(t *testing.T) {
	p := NewPool(Config{})
	a := p.Acquire("robot-a")
	p.Clear()
	b := p.Acquire("robot-a")
	require.NotSame(t, a, b)
}

func TestDefaultPoolIsASingleton(t *testing.T) {
	require.Same(t, DefaultPool(), DefaultPool())
}
