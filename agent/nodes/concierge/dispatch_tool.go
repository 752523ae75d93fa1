package conciergenode

import (
	"context"
	"fmt"

	contractx "github.com/hotelhive/server/agent/contract"
)

func DispatchTool(ctx context.Context, in *GraphState, host contractx.Host) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply, err := host.Execute(ctx, in.SessionID, in.Call)
	if err != nil {
		return nil, err
	}

	in.ToolReply = reply
	in.Reply = reply.Text
	return in, nil
}
