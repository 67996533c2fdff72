// Package collapse shares one in-flight search among identical concurrent requests.
package collapse

import (
	"context"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/alex-user-go/travelsearch/internal/search/types"
)

// Group collapses concurrent searches with the same key into one run.
// Nothing is kept once a run completes.
type Group struct {
	sf singleflight.Group
}

// New creates a new Group.
func New() *Group {
	return &Group{}
}

// Key identifies a normalized search request.
func Key(req types.SearchRequest) string {
	return strings.Join([]string{req.From, req.To, req.Date, req.ReturnDate, req.FlightClass, req.TrainClass}, "\x1f")
}

// Do runs fetch once for all concurrent callers with the same key. The run is
// detached from any single caller's cancellation, so a caller leaving early does
// not fail the others; a caller whose ctx ends gets context.Cause(ctx).
// shared reports whether the result came from another caller's run.
func (g *Group) Do(ctx context.Context, key string, fetch func(ctx context.Context) *types.Result) (result *types.Result, shared bool, err error) {
	var leader atomic.Bool
	runCtx := context.WithoutCancel(ctx)

	ch := g.sf.DoChan(key, func() (any, error) {
		leader.Store(true)
		return fetch(runCtx), nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*types.Result), !leader.Load(), nil
	case <-ctx.Done():
		return nil, false, context.Cause(ctx)
	}
}
