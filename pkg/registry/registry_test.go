package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pwfactory/internal/testing/enginetest"
	"github.com/entrhq/pwfactory/pkg/options"
	"github.com/entrhq/pwfactory/pkg/resource"
)

func TestConfigRegistry_PutGet(t *testing.T) {
	r := NewConfigRegistry()

	_, ok := r.Get(options.KeyLaunch)
	assert.False(t, ok)

	launch := options.DefaultLaunchOptions().With(func(o *options.LaunchOptions) {
		o.Browser = "firefox"
	})
	r.Put(launch)

	got, ok := r.Get(options.KeyLaunch)
	require.True(t, ok)
	assert.Equal(t, launch, got)
	assert.True(t, r.Exists(options.KeyLaunch))
	assert.False(t, r.Exists(options.KeySession))
}

func TestConfigRegistry_PutOverwrites(t *testing.T) {
	r := NewConfigRegistry()
	r.Put(options.DefaultTraceStopOptions())

	custom := options.TraceStopOptions{Path: "out/trace.zip"}
	r.Put(custom)

	got, ok := Lookup[options.TraceStopOptions](r)
	require.True(t, ok)
	assert.Equal(t, "out/trace.zip", got.Path)
	assert.Len(t, r.Snapshot(), 1)
}

func TestConfigRegistry_PutAllAndClear(t *testing.T) {
	r := NewConfigRegistry()
	r.PutAll(options.DefaultSessionOptions(), options.DefaultTraceStartOptions())

	snap := r.Snapshot()
	assert.Len(t, snap, 2)

	r.Clear()
	assert.Empty(t, r.Snapshot())
	assert.Len(t, snap, 2, "snapshot is a copy")
}

func TestLookup_Missing(t *testing.T) {
	r := NewConfigRegistry()
	_, ok := Lookup[options.SessionOptions](r)
	assert.False(t, ok)
}

func TestSingletonRegistry(t *testing.T) {
	engine := enginetest.New()
	r := NewSingletonRegistry()

	assert.Nil(t, r.GetEnvironment())
	assert.Nil(t, r.GetRuntime())

	env, err := engine.Bootstrap(options.DefaultEnvironmentOptions())
	require.NoError(t, err)
	r.SetEnvironment(env)
	assert.Same(t, env, r.GetEnvironment())

	rt, err := env.Launch(resource.FamilyChromium, options.DefaultLaunchOptions())
	require.NoError(t, err)
	r.SetRuntime(rt)
	assert.Same(t, rt, r.GetRuntime())

	// released handles stay referenced
	require.NoError(t, rt.Release())
	assert.Same(t, rt, r.GetRuntime())

	r.Reset()
	assert.Nil(t, r.GetEnvironment())
	assert.Nil(t, r.GetRuntime())
}

func TestSingletonRegistry_ConcurrentAccess(t *testing.T) {
	engine := enginetest.New()
	r := NewSingletonRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env, err := engine.Bootstrap(options.DefaultEnvironmentOptions())
			if err != nil {
				return
			}
			r.SetEnvironment(env)
			_ = r.GetEnvironment()
		}()
	}
	wg.Wait()

	assert.NotNil(t, r.GetEnvironment())
}

func TestStore_ScopePerWorker(t *testing.T) {
	s := NewStore()

	a := s.Scope("worker-a")
	b := s.Scope("worker-b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, s.Scope("worker-a"))
	assert.Equal(t, "worker-a", a.Worker())

	a.Configs().Put(options.DefaultLaunchOptions())
	assert.False(t, b.Configs().Exists(options.KeyLaunch))

	assert.ElementsMatch(t, []string{"worker-a", "worker-b"}, s.Workers())

	s.Remove("worker-a")
	assert.NotSame(t, a, s.Scope("worker-a"))
}

func TestStore_ScopeFor(t *testing.T) {
	s := NewStore()

	ctx := WithWorker(context.Background(), "w1")
	assert.Equal(t, "w1", WorkerFrom(ctx))
	assert.Same(t, s.Scope("w1"), s.ScopeFor(ctx))

	assert.Equal(t, DefaultWorker, WorkerFrom(context.Background()))
	assert.Same(t, s.Scope(DefaultWorker), s.ScopeFor(context.Background()))
}

func TestScope_Exclusive(t *testing.T) {
	scope := NewScope("w")

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = scope.Exclusive(func() error {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}
