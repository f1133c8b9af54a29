package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Messages maps node IDs to the human-readable progress text streamed while
// that node runs. The table is configuration, not logic: the bridge looks
// messages up by node ID and never inspects state to produce them.
type Messages map[string]string

// DefaultMessages returns the built-in progress table. The text is part of
// the externally observable content contract.
func DefaultMessages() Messages {
	return Messages{
		NodePlan:        "**Step 1: [PLANNING].** Analyzing the user's request...",
		NodeExecute:     "**Step 2: [EXECUTION].** Complex task detected. Starting 3 second simulation...",
		NodeCheckResult: "**Step 3: [VERIFICATION].** Collecting and formatting the final answer.",
	}
}

// LoadMessages reads a YAML file mapping node IDs to progress messages and
// overlays it on the defaults, so a partial file only overrides the nodes
// it names. An empty path returns the defaults.
//
// Example file:
//
//	plan: "Planning..."
//	execute: "Executing..."
//	check_result: "Checking result..."
func LoadMessages(path string) (Messages, error) {
	messages := DefaultMessages()
	if path == "" {
		return messages, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read messages file: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse messages file: %w", err)
	}

	for nodeID, text := range overrides {
		if _, known := messages[nodeID]; !known {
			return nil, fmt.Errorf("messages file names unknown node: %s", nodeID)
		}
		messages[nodeID] = text
	}
	return messages, nil
}
