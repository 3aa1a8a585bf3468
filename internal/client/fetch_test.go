package client

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerLoadSuccess(t *testing.T) {
	src := SourceFunc[Item](func(ctx context.Context, state QueryState) ([]Item, error) {
		return []Item{{ID: 1, Name: "Organic Banana"}}, nil
	})
	ctrl := NewController[Item](src)

	ctrl.Load(context.Background(), NewQueryState())

	require.NoError(t, ctrl.Err())
	assert.False(t, ctrl.Loading())
	require.Len(t, ctrl.Items(), 1)
	assert.Equal(t, "Organic Banana", ctrl.Items()[0].Name)
}

func TestControllerFailureClearsList(t *testing.T) {
	calls := 0
	src := SourceFunc[Item](func(ctx context.Context, state QueryState) ([]Item, error) {
		calls++
		if calls == 1 {
			return []Item{{ID: 1}, {ID: 2}}, nil
		}
		return nil, errors.New("connection refused")
	})
	ctrl := NewController[Item](src)

	ctrl.Load(context.Background(), NewQueryState())
	require.Len(t, ctrl.Items(), 2)

	// a failed refresh does not keep showing the stale list
	ctrl.Load(context.Background(), NewQueryState())
	assert.Error(t, ctrl.Err())
	assert.Nil(t, ctrl.Items())
	assert.False(t, ctrl.Loading())
}

func TestControllerSuccessClearsPreviousError(t *testing.T) {
	calls := 0
	src := SourceFunc[Item](func(ctx context.Context, state QueryState) ([]Item, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return []Item{{ID: 1}}, nil
	})
	ctrl := NewController[Item](src)

	ctrl.Load(context.Background(), NewQueryState())
	require.Error(t, ctrl.Err())

	ctrl.Load(context.Background(), NewQueryState())
	assert.NoError(t, ctrl.Err())
	assert.Len(t, ctrl.Items(), 1)
}

// A slow response from an earlier load must not overwrite the result of
// a later one, regardless of arrival order.
func TestControllerSupersededResponseDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	src := SourceFunc[Item](func(ctx context.Context, state QueryState) ([]Item, error) {
		if state.Search == "slow" {
			close(firstStarted)
			<-release
			return []Item{{ID: 1, Name: "stale"}}, nil
		}
		return []Item{{ID: 2, Name: "fresh"}}, nil
	})
	ctrl := NewController[Item](src)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.Load(context.Background(), NewQueryState().WithSearch("slow"))
	}()

	<-firstStarted
	ctrl.Load(context.Background(), NewQueryState().WithSearch("fresh"))
	require.Len(t, ctrl.Items(), 1)
	assert.Equal(t, "fresh", ctrl.Items()[0].Name)

	// let the stale response land; it must be dropped
	close(release)
	wg.Wait()

	require.Len(t, ctrl.Items(), 1)
	assert.Equal(t, "fresh", ctrl.Items()[0].Name)
	assert.NoError(t, ctrl.Err())
	assert.False(t, ctrl.Loading())
}

// A superseded failure is dropped too: the newer load's result stands.
func TestControllerSupersededErrorDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	src := SourceFunc[Item](func(ctx context.Context, state QueryState) ([]Item, error) {
		if state.Search == "slow" {
			close(firstStarted)
			<-release
			return nil, errors.New("late failure")
		}
		return []Item{{ID: 2}}, nil
	})
	ctrl := NewController[Item](src)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.Load(context.Background(), NewQueryState().WithSearch("slow"))
	}()

	<-firstStarted
	ctrl.Load(context.Background(), NewQueryState())

	close(release)
	wg.Wait()

	assert.NoError(t, ctrl.Err())
	assert.Len(t, ctrl.Items(), 1)
}
