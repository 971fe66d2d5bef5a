package tools

import (
	"context"
	"testing"
)

func TestRegistry_KnownTools(t *testing.T) {
	registry := NewRegistry(NewToolbelt(nil))

	expected := []string{
		"get_scheme_details",
		"get_historical_nav",
		"get_large_cap_funds",
		"get_mid_cap_funds",
		"get_small_cap_funds",
		"calculate_sip_returns",
		"calculate_lumpsum_returns",
		"calculate_capital_gains_tax",
	}

	for _, name := range expected {
		if _, ok := registry.Get(name); !ok {
			t.Errorf("Expected tool %q to be registered", name)
		}
	}
	if got := len(registry.Names()); got != len(expected) {
		t.Errorf("Expected %d tools, got %d", len(expected), got)
	}
}

func TestRegistry_Declarations(t *testing.T) {
	registry := NewRegistry(NewToolbelt(nil))

	decls, err := registry.Declarations([]string{"calculate_sip_returns", "get_scheme_details"})
	if err != nil {
		t.Fatalf("Declarations failed: %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("Expected 2 declarations, got %d", len(decls))
	}
	if decls[0].Name != "calculate_sip_returns" {
		t.Errorf("Declaration order not preserved: %q", decls[0].Name)
	}

	if _, err := registry.Declarations([]string{"no_such_tool"}); err == nil {
		t.Error("Expected error for unknown tool name")
	}
}

func TestRegistry_ExecuteFoldsErrors(t *testing.T) {
	registry := NewRegistry(NewToolbelt(nil))

	// Unknown tool
	result := registry.Execute(context.Background(), "bogus", nil)
	if result["error"] == nil {
		t.Error("Expected error payload for unknown tool")
	}

	// Calculator failure: debt funds are rejected
	result = registry.Execute(context.Background(), "calculate_capital_gains_tax", map[string]any{
		"gain_amount":    float64(100000),
		"holding_months": float64(24),
		"fund_type":      "debt",
	})
	if result["error"] == nil {
		t.Error("Expected error payload for debt fund taxation")
	}
}

func TestRegistry_ExecuteCalculator(t *testing.T) {
	registry := NewRegistry(NewToolbelt(nil))

	result := registry.Execute(context.Background(), "calculate_lumpsum_returns", map[string]any{
		"purchase_nav":      45.50,
		"current_nav":       68.75,
		"investment_amount": float64(100000),
		"holding_years":     float64(3),
	})

	if result["error"] != nil {
		t.Fatalf("Unexpected error: %v", result["error"])
	}
	if result["cagr_pct"] == nil {
		t.Error("Expected CAGR in calculator result")
	}
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"str":   "hello",
		"float": 4.5,
		"whole": float64(12),
	}

	if got := argString(args, "str"); got != "hello" {
		t.Errorf("argString: expected 'hello', got %q", got)
	}
	if got := argString(args, "missing"); got != "" {
		t.Errorf("argString: expected empty for missing key, got %q", got)
	}
	if got := argFloat(args, "float", 0); got != 4.5 {
		t.Errorf("argFloat: expected 4.5, got %v", got)
	}
	if got := argFloat(args, "missing", 7.5); got != 7.5 {
		t.Errorf("argFloat: expected fallback 7.5, got %v", got)
	}
	if got := argInt(args, "whole", 0); got != 12 {
		t.Errorf("argInt: expected 12, got %d", got)
	}
	if got := argInt(args, "missing", 30); got != 30 {
		t.Errorf("argInt: expected fallback 30, got %d", got)
	}
}
