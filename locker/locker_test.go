package locker_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"libslack/locker"
	"libslack/slacklog"
)

func TestNilLockerIsNoOp(t *testing.T) {
	var l *locker.Locker
	require.NoError(t, l.RDLock())
	require.NoError(t, l.WRLock())
	require.NoError(t, l.TryRDLock())
	require.NoError(t, l.TryWRLock())
	require.NoError(t, l.Unlock())
}

func TestMutexLockerExclusive(t *testing.T) {
	l := locker.NewMutex()
	require.NoError(t, l.WRLock())
	require.Error(t, l.TryWRLock())
	require.Error(t, l.TryRDLock())
	require.NoError(t, l.Unlock())

	require.NoError(t, l.RDLock())
	require.NoError(t, l.Unlock())
}

func TestRWLockerAllowsConcurrentReaders(t *testing.T) {
	l := locker.NewRWLock()
	require.NoError(t, l.RDLock())
	require.NoError(t, l.TryRDLock())
	require.Error(t, l.TryWRLock())
	require.NoError(t, l.Unlock())
	require.NoError(t, l.Unlock())
}

func TestRWLockerUnderConcurrency(t *testing.T) {
	l := locker.NewRWLock()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, l.RDLock())
			defer l.Unlock()
		}()
	}
	wg.Wait()

	require.NoError(t, l.WRLock())
	require.NoError(t, l.Unlock())
}

func TestDebugLockerLogsAndForwards(t *testing.T) {
	buf := slacklog.NewBuffer()
	inner := locker.NewMutex()
	l := locker.NewDebug(inner, buf)

	require.NoError(t, l.WRLock())
	require.NoError(t, l.Unlock())

	require.GreaterOrEqual(t, buf.Len(), 4)
	lines := buf.Lines()
	require.Contains(t, lines[0], "wrlock start")
}

func TestDebugLockerDefaultsToNopLogger(t *testing.T) {
	require.NotPanics(t, func() {
		l := locker.NewDebug(locker.NewMutex(), nil)
		require.NoError(t, l.WRLock())
		require.NoError(t, l.Unlock())
	})
}
