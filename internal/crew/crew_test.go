package crew

import (
	"strings"
	"testing"
)

func TestBuildTaskPrompt(t *testing.T) {
	cfg := TaskConfig{
		Description:    "Research {fund_category} funds for: {user_prompt}",
		ExpectedOutput: "A factual summary",
		Agent:          "mf_data_researcher",
	}
	inputs := map[string]any{
		"fund_category": "Large Cap",
		"user_prompt":   "best SIP funds?",
	}

	prompt := buildTaskPrompt(cfg, inputs, nil)

	if !strings.Contains(prompt, "Research Large Cap funds for: best SIP funds?") {
		t.Errorf("Description not interpolated: %q", prompt)
	}
	if !strings.Contains(prompt, "Expected output:\nA factual summary") {
		t.Errorf("Expected output missing: %q", prompt)
	}
	if strings.Contains(prompt, "Context from earlier tasks") {
		t.Errorf("Context section should be absent without prior outputs: %q", prompt)
	}
}

func TestBuildTaskPrompt_IncludesContext(t *testing.T) {
	cfg := TaskConfig{Description: "Advise the investor", Agent: "investment_advisor"}
	context := []string{
		"[collect_fund_data]\nAxis Bluechip Fund, NAV 68.75",
		"[calculate_sip_returns]\nIRR 14.2%",
	}

	prompt := buildTaskPrompt(cfg, map[string]any{}, context)

	if !strings.Contains(prompt, "Context from earlier tasks") {
		t.Fatalf("Context header missing: %q", prompt)
	}
	if !strings.Contains(prompt, "Axis Bluechip Fund") || !strings.Contains(prompt, "IRR 14.2%") {
		t.Errorf("Prior task outputs missing from prompt: %q", prompt)
	}
}

func TestSystemInstruction(t *testing.T) {
	cfg := AgentConfig{
		Role:      "Mutual Fund Data Researcher\n",
		Goal:      "Collect accurate fund data\n",
		Backstory: "A meticulous analyst\n",
	}

	sys := systemInstruction(cfg)

	if !strings.HasPrefix(sys, "You are Mutual Fund Data Researcher.") {
		t.Errorf("Unexpected instruction prefix: %q", sys)
	}
	if !strings.Contains(sys, "Your goal: Collect accurate fund data") {
		t.Errorf("Goal missing: %q", sys)
	}
	if !strings.Contains(sys, "Backstory: A meticulous analyst") {
		t.Errorf("Backstory missing: %q", sys)
	}
}

func TestSystemInstruction_NoBackstory(t *testing.T) {
	sys := systemInstruction(AgentConfig{Role: "Advisor", Goal: "Advise"})
	if strings.Contains(sys, "Backstory") {
		t.Errorf("Backstory section should be omitted when empty: %q", sys)
	}
}

func TestAgentToolAssignments(t *testing.T) {
	// The advisor reasons over prior outputs and must not get tools.
	if tools := agentToolNames["investment_advisor"]; len(tools) != 0 {
		t.Errorf("Expected no tools for investment_advisor, got %v", tools)
	}

	researcher := agentToolNames["mf_data_researcher"]
	if len(researcher) != 5 {
		t.Errorf("Expected 5 researcher tools, got %d", len(researcher))
	}

	calculator := agentToolNames["returns_calculator"]
	if len(calculator) != 3 {
		t.Errorf("Expected 3 calculator tools, got %d", len(calculator))
	}

	// Every task's agent must be assembled.
	if len(taskOrder) != 4 {
		t.Errorf("Expected a 4-task pipeline, got %d", len(taskOrder))
	}
}
