package actor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"FrontierTown/modules/kit/errx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_返回值与业务错误原样透传(t *testing.T) {
	r := NewRuntime(time.Second, nil)
	defer r.Shutdown()
	ctx := context.Background()

	v, err := r.Do(ctx, "p1", func(ctx context.Context) (any, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	bizErr := errx.NewBiz("TOWN_NOT_FOUND", "player not found")
	_, err = r.Do(ctx, "p1", func(ctx context.Context) (any, error) { return nil, bizErr })
	assert.True(t, errors.Is(err, bizErr))
}

func TestDo_同一玩家串行执行(t *testing.T) {
	r := NewRuntime(5*time.Second, nil)
	defer r.Shutdown()

	var (
		active, maxActive int
		mu                sync.Mutex
		counter           int
		wg                sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Do(context.Background(), "p1", func(ctx context.Context) (any, error) {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				counter++
				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxActive)
	assert.Equal(t, 50, counter)
}

func TestDo_不同玩家可以并行(t *testing.T) {
	r := NewRuntime(5*time.Second, nil)
	defer r.Shutdown()

	release := make(chan struct{})
	started := make(chan string, 2)
	var wg sync.WaitGroup
	for _, id := range []string{"a", "b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = r.Do(context.Background(), id, func(ctx context.Context) (any, error) {
				started <- id
				<-release
				return nil, nil
			})
		}(id)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("players did not run concurrently")
		}
	}
	close(release)
	wg.Wait()
}

func TestDo_panic转成系统错误且actor继续可用(t *testing.T) {
	r := NewRuntime(time.Second, nil)
	defer r.Shutdown()
	ctx := context.Background()

	_, err := r.Do(ctx, "p1", func(ctx context.Context) (any, error) { panic("boom") })
	require.Error(t, err)
	assert.Equal(t, errx.CodeInternal, errx.CodeOf(err))

	v, err := r.Do(ctx, "p1", func(ctx context.Context) (any, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestDo_超时(t *testing.T) {
	r := NewRuntime(50*time.Millisecond, nil)
	defer r.Shutdown()

	_, err := r.Do(context.Background(), "p1", func(ctx context.Context) (any, error) {
		time.Sleep(300 * time.Millisecond)
		return nil, nil
	})
	assert.Equal(t, errx.CodeTimeout, errx.CodeOf(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Do(ctx, "p2", func(ctx context.Context) (any, error) { return nil, nil })
	assert.Equal(t, errx.CodeTimeout, errx.CodeOf(err))
}

func TestDo_参数错误与关闭后不可用(t *testing.T) {
	r := NewRuntime(time.Second, nil)

	_, err := r.Do(context.Background(), "", func(ctx context.Context) (any, error) { return nil, nil })
	assert.Equal(t, errx.CodeReqParamError, errx.CodeOf(err))

	r.Shutdown()
	r.Shutdown()
	_, err = r.Do(context.Background(), "p1", func(ctx context.Context) (any, error) { return nil, nil })
	assert.Equal(t, errx.CodeUnavailable, errx.CodeOf(err))
}
