package conciergenode

import (
	"context"
	"fmt"

	contractx "github.com/hotelhive/server/agent/contract"
)

func RouteIntent(ctx context.Context, in *GraphState, router contractx.Router) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	call, pending, err := router.Route(ctx, in.Text, in.History, in.Pending)
	if err != nil {
		return nil, err
	}

	call.History = in.History
	in.Call = call
	in.NewPending = pending
	return in, nil
}
