package core

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TreeDump is a serializable view of a node subtree for debugging.
type TreeDump struct {
	Kind     string      `yaml:"kind"`
	Key      string      `yaml:"key,omitempty"`
	Props    string      `yaml:"props,omitempty"`
	State    string      `yaml:"state,omitempty"`
	Drawn    bool        `yaml:"drawn"`
	Children []*TreeDump `yaml:"children,omitempty"`
}

// Dump captures the subtree rooted at n.
func Dump(n Node) *TreeDump {
	if n == nil {
		return nil
	}
	desc := n.Description()
	dump := &TreeDump{
		Kind:  desc.KindName(),
		Props: formatValue(desc.props()),
		State: formatValue(n.state()),
		Drawn: n.Drawn(),
	}
	if key := desc.Key(); key != nil {
		dump.Key = fmt.Sprint(key)
	}
	for _, child := range n.Children() {
		dump.Children = append(dump.Children, Dump(child))
	}
	return dump
}

// DumpYAML renders the subtree rooted at n as YAML.
func DumpYAML(n Node) ([]byte, error) {
	data, err := yaml.Marshal(Dump(n))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal node tree: %w", err)
	}
	return data, nil
}

// formatValue renders props or state, leaving empty struct values out.
func formatValue(v any) string {
	if v == nil {
		return ""
	}
	s := fmt.Sprintf("%+v", v)
	if s == "{}" {
		return ""
	}
	return s
}
