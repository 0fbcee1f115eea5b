package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted YAML path (e.g.
// "keybinds.0.key") and the source that set it.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	var doc yaml.Node
	if err := doc.Encode(res.Config); err != nil {
		return nil, Source{}, fmt.Errorf("failed to encode config: %w", err)
	}
	node, err := lookupNode(&doc, path)
	if err != nil {
		return nil, Source{}, err
	}
	var value any
	if err := node.Decode(&value); err != nil {
		return nil, Source{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupNode(doc *yaml.Node, path string) (*yaml.Node, error) {
	node := rootNode(doc)
	for _, part := range strings.Split(path, ".") {
		var next *yaml.Node
		switch node.Kind {
		case yaml.MappingNode:
			for i := 0; i+1 < len(node.Content); i += 2 {
				if node.Content[i].Value == part {
					next = node.Content[i+1]
					break
				}
			}
		case yaml.SequenceNode:
			if i, err := strconv.Atoi(part); err == nil && i >= 0 && i < len(node.Content) {
				next = node.Content[i]
			}
		}
		if next == nil {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		node = next
	}
	return node, nil
}

// FormatSource renders src for CLI output.
func FormatSource(src Source) string {
	switch src.Kind {
	case SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}
