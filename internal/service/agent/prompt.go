package agent

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/talk-agent/backend/internal/model/profile"
	"github.com/zhouzirui/talk-agent/backend/internal/tool"
)

// BuildInstructions creates the system instructions for a profile, listing
// the tools the model may call.
func BuildInstructions(p profile.Profile, tools *tool.Registry) string {
	base := strings.TrimSpace(p.Instructions)
	if base == "" {
		base = fmt.Sprintf("You are %s. Use the tools provided to you to help with the user's request.", p.Name)
	}

	var descriptors []tool.Descriptor
	if tools != nil {
		descriptors = tools.Descriptors()
	}
	if len(p.Rules) == 0 && len(descriptors) == 0 {
		return base
	}

	var b strings.Builder
	b.WriteString(base)
	if len(descriptors) > 0 {
		b.WriteString("\n\nYou can:")
		for _, d := range descriptors {
			fmt.Fprintf(&b, "\n- **%s**: %s", d.Name, d.Description)
		}
	}
	if len(p.Rules) > 0 {
		b.WriteString("\n\nRules:")
		for _, rule := range p.Rules {
			b.WriteString("\n- ")
			b.WriteString(rule)
		}
	}
	return b.String()
}
