package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/ipc"
)

func (s *Server) handleSendCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args SendCommandInput) (*mcpsdk.CallToolResult, SendCommandOutput, error) {
	line := strings.TrimSpace(args.Command)
	// Parse locally so malformed lines fail without a round trip.
	if _, err := command.Parse(line); err != nil {
		return nil, SendCommandOutput{}, fmt.Errorf("invalid command %q: %w", line, err)
	}
	data, err := s.client.SendCommand(line)
	if err != nil {
		return nil, SendCommandOutput{}, err
	}
	return nil, SendCommandOutput{Command: line, Outcome: data.Outcome}, nil
}

func (s *Server) handleGetState(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStateInput) (*mcpsdk.CallToolResult, GetStateOutput, error) {
	state, err := s.client.GetState()
	if err != nil {
		return nil, GetStateOutput{}, err
	}
	return nil, GetStateOutput{State: *state}, nil
}

func (s *Server) handleGoToTag(_ context.Context, _ *mcpsdk.CallToolRequest, args GoToTagInput) (*mcpsdk.CallToolResult, GoToTagOutput, error) {
	state, err := s.client.GetState()
	if err != nil {
		return nil, GoToTagOutput{}, err
	}
	tag, err := resolveTag(state.Tags, args.Tag)
	if err != nil {
		return nil, GoToTagOutput{}, err
	}

	line := command.String(command.GoToTag{Tag: tag.ID, Swap: args.Swap})
	data, err := s.client.SendCommand(line)
	if err != nil {
		return nil, GoToTagOutput{}, err
	}
	return nil, GoToTagOutput{Tag: int(tag.ID), Label: tag.Label, Outcome: data.Outcome}, nil
}

// resolveTag matches a label first, then a numeric id.
func resolveTag(tags []ipc.TagInfo, ref string) (ipc.TagInfo, error) {
	ref = strings.TrimSpace(ref)
	for _, t := range tags {
		if t.Label == ref {
			return t, nil
		}
	}
	if id, err := strconv.Atoi(ref); err == nil {
		for _, t := range tags {
			if int(t.ID) == id {
				return t, nil
			}
		}
	}
	labels := make([]string, 0, len(tags))
	for _, t := range tags {
		labels = append(labels, t.Label)
	}
	return ipc.TagInfo{}, fmt.Errorf("unknown tag %q; available: %v", ref, labels)
}
