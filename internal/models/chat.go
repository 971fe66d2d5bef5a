package models

import (
	"fmt"
	"strings"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint. Structured
// investment parameters ride alongside the free-text message and the
// conversation history.
type ChatRequest struct {
	Message string `json:"message"`

	// Fund selection
	FundCategory string `json:"fund_category"`
	SchemeCodes  string `json:"scheme_codes"` // comma separated, optional
	SchemeCode   string `json:"scheme_code"`

	// SIP parameters
	MonthlySIP       float64 `json:"monthly_sip"`
	InvestmentMonths int     `json:"investment_months"`
	HoldingMonths    int     `json:"holding_months"`

	// Lumpsum parameters
	LumpsumAmount float64 `json:"lumpsum_amount"`
	PurchaseNAV   float64 `json:"purchase_nav"`
	CurrentNAV    float64 `json:"current_nav"`
	HoldingYears  int     `json:"holding_years"`

	// Investor profile
	RiskProfile       string  `json:"risk_profile"`
	InvestmentHorizon int     `json:"investment_horizon"`
	InvestmentType    string  `json:"investment_type"`
	MonthlyBudget     float64 `json:"monthly_budget"`
	LumpsumBudget     float64 `json:"lumpsum_budget"`
	FundCategories    string  `json:"fund_categories"`
	InvestmentGoal    string  `json:"investment_goal"`

	History []ChatMessage `json:"history"`
}

// DefaultChatRequest returns a request pre-filled with the documented
// defaults. Decoding a JSON body over it leaves omitted fields at their
// defaults.
func DefaultChatRequest() ChatRequest {
	return ChatRequest{
		FundCategory:      "Large Cap",
		MonthlySIP:        10000,
		InvestmentMonths:  60,
		HoldingMonths:     60,
		LumpsumAmount:     100000,
		PurchaseNAV:       45.50,
		CurrentNAV:        68.75,
		HoldingYears:      3,
		RiskProfile:       "Moderate",
		InvestmentHorizon: 7,
		InvestmentType:    "SIP",
		MonthlyBudget:     15000,
		LumpsumBudget:     0,
		FundCategories:    "Large Cap, Mid Cap",
	}
}

// ToInputs flattens the request into the inputs map handed to the crew.
// scheme_codes and scheme_code fall back to each other, the investment
// goal falls back to the message itself, and the history is rendered as
// "role: content" lines.
func (r ChatRequest) ToInputs() map[string]any {
	schemeCodes := r.SchemeCodes
	if schemeCodes == "" {
		schemeCodes = r.SchemeCode
	}

	schemeCode := r.SchemeCode
	if schemeCode == "" {
		schemeCode = strings.TrimSpace(strings.SplitN(r.SchemeCodes, ",", 2)[0])
	}

	goal := r.InvestmentGoal
	if goal == "" {
		goal = r.Message
	}

	history := make([]string, 0, len(r.History))
	for _, entry := range r.History {
		history = append(history, fmt.Sprintf("%s: %s", entry.Role, entry.Content))
	}

	return map[string]any{
		"fund_category":      r.FundCategory,
		"scheme_codes":       schemeCodes,
		"scheme_code":        schemeCode,
		"monthly_sip":        r.MonthlySIP,
		"investment_months":  r.InvestmentMonths,
		"holding_months":     r.HoldingMonths,
		"lumpsum_amount":     r.LumpsumAmount,
		"purchase_nav":       r.PurchaseNAV,
		"current_nav":        r.CurrentNAV,
		"holding_years":      r.HoldingYears,
		"risk_profile":       r.RiskProfile,
		"investment_horizon": r.InvestmentHorizon,
		"investment_type":    r.InvestmentType,
		"monthly_budget":     r.MonthlyBudget,
		"lumpsum_budget":     r.LumpsumBudget,
		"fund_categories":    r.FundCategories,
		"investment_goal":    goal,
		"user_prompt":        r.Message,
		"chat_history":       history,
	}
}

// ChatResponse is the reply from the advisor crew. Inputs echoes the
// resolved crew inputs so the UI can inspect what the agents saw.
type ChatResponse struct {
	Reply  string         `json:"reply"`
	Inputs map[string]any `json:"inputs,omitempty"`
}
