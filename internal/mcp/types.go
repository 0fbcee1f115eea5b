package mcp

import "github.com/1broseidon/tagtile/internal/ipc"

// SendCommandInput is the input for the send_command tool.
type SendCommandInput struct {
	Command string `json:"command" jsonschema:"required,Command line as written in keybinds, e.g. 'GoToTag 2' or 'SetLayout monocle'"`
}

// SendCommandOutput is the output for the send_command tool.
type SendCommandOutput struct {
	Command string `json:"command"`
	Outcome string `json:"outcome"`
}

// GetStateInput is the input for the get_state tool.
type GetStateInput struct{}

// GetStateOutput is the output for the get_state tool.
type GetStateOutput struct {
	State ipc.StateData `json:"state"`
}

// GoToTagInput is the input for the go_to_tag tool.
type GoToTagInput struct {
	Tag  string `json:"tag" jsonschema:"required,Tag label or numeric id"`
	Swap bool   `json:"swap,omitempty" jsonschema:"When the tag is already shown, return to the previous tag instead"`
}

// GoToTagOutput is the output for the go_to_tag tool.
type GoToTagOutput struct {
	Tag     int    `json:"tag"`
	Label   string `json:"label"`
	Outcome string `json:"outcome"`
}
