package crew

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AgentConfig is one entry in agents.yaml: the persona handed to the
// model as its system instruction.
type AgentConfig struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

// TaskConfig is one entry in tasks.yaml. Description and expected output
// may contain {placeholder} references into the kickoff inputs.
type TaskConfig struct {
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`
	Agent          string `yaml:"agent"`
}

// LoadAgentConfigs reads agents.yaml from the crew config directory.
func LoadAgentConfigs(configDir string) (map[string]AgentConfig, error) {
	data, err := os.ReadFile(filepath.Join(configDir, "agents.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read agents config: %w", err)
	}

	agents := make(map[string]AgentConfig)
	if err := yaml.Unmarshal(data, &agents); err != nil {
		return nil, fmt.Errorf("failed to parse agents config: %w", err)
	}

	for name, cfg := range agents {
		if cfg.Role == "" || cfg.Goal == "" {
			return nil, fmt.Errorf("agent %q is missing a role or goal", name)
		}
	}
	return agents, nil
}

// LoadTaskConfigs reads tasks.yaml from the crew config directory.
func LoadTaskConfigs(configDir string) (map[string]TaskConfig, error) {
	data, err := os.ReadFile(filepath.Join(configDir, "tasks.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks config: %w", err)
	}

	tasks := make(map[string]TaskConfig)
	if err := yaml.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse tasks config: %w", err)
	}

	for name, cfg := range tasks {
		if cfg.Description == "" {
			return nil, fmt.Errorf("task %q is missing a description", name)
		}
		if cfg.Agent == "" {
			return nil, fmt.Errorf("task %q is missing an agent", name)
		}
	}
	return tasks, nil
}
