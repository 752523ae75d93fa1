package conciergenode

import (
	"fmt"
	"strings"

	contractx "github.com/hotelhive/server/agent/contract"
)

// FallbackReply covers turns that produced no usable text.
const FallbackReply = "I'm not sure how to respond to that. Can you try rephrasing?"

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		reply = FallbackReply
	}
	return GraphOutput{Reply: reply}, nil
}
