package tools

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// Tool is one callable exposed to the model via function calling.
type Tool struct {
	Declaration *genai.FunctionDeclaration
	Call        func(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Registry maps tool names to their declarations and handlers.
type Registry struct {
	tools map[string]Tool
	order []string
}

func (r *Registry) register(t Tool) {
	r.tools[t.Declaration.Name] = t
	r.order = append(r.order, t.Declaration.Name)
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns every registered tool name in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Execute runs the named tool. Failures are folded into an error payload
// handed back to the model instead of aborting the run.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) map[string]any {
	t, ok := r.tools[name]
	if !ok {
		return map[string]any{"error": fmt.Sprintf("unknown tool %q", name)}
	}
	result, err := t.Call(ctx, args)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}

// Declarations resolves tool names to genai declarations, erroring on
// names the registry does not know.
func (r *Registry) Declarations(names []string) ([]*genai.FunctionDeclaration, error) {
	decls := make([]*genai.FunctionDeclaration, 0, len(names))
	for _, name := range names {
		t, ok := r.tools[name]
		if !ok {
			return nil, fmt.Errorf("unknown tool %q", name)
		}
		decls = append(decls, t.Declaration)
	}
	return decls, nil
}

// NewRegistry builds the full advisor tool registry over a toolbelt.
func NewRegistry(tb *Toolbelt) *Registry {
	r := &Registry{tools: make(map[string]Tool)}

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "get_scheme_details",
			Description: "Get detailed information about a mutual fund scheme including NAV, fund house, type and category.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"scheme_code": {Type: genai.TypeString, Description: "The AMFI scheme code, e.g. '119551'."},
				},
				Required: []string{"scheme_code"},
			},
		},
		Call: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return tb.SchemeDetails(ctx, argString(args, "scheme_code"))
		},
	})

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "get_historical_nav",
			Description: "Get historical NAV data for a mutual fund scheme.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"scheme_code": {Type: genai.TypeString, Description: "The AMFI scheme code."},
					"days":        {Type: genai.TypeInteger, Description: "Number of days of history, default 30."},
				},
				Required: []string{"scheme_code"},
			},
		},
		Call: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return tb.HistoricalNAV(ctx, argString(args, "scheme_code"), argInt(args, "days", 30))
		},
	})

	for _, category := range []string{"Large Cap", "Mid Cap", "Small Cap"} {
		category := category
		name := categoryToolName(category)
		r.register(Tool{
			Declaration: &genai.FunctionDeclaration{
				Name:        name,
				Description: fmt.Sprintf("Get a list of %s equity mutual funds.", category),
			},
			Call: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				return tb.CategoryFunds(ctx, category)
			},
		})
	}

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "calculate_sip_returns",
			Description: "Calculate SIP returns from historical NAV data, including the annualized IRR.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"scheme_code":       {Type: genai.TypeString, Description: "The AMFI scheme code."},
					"monthly_sip":       {Type: genai.TypeNumber, Description: "Monthly SIP amount in rupees."},
					"investment_months": {Type: genai.TypeInteger, Description: "Number of months of SIP investment."},
				},
				Required: []string{"scheme_code", "monthly_sip", "investment_months"},
			},
		},
		Call: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return tb.SIPReturnsForScheme(ctx,
				argString(args, "scheme_code"),
				argFloat(args, "monthly_sip", 0),
				argInt(args, "investment_months", 0))
		},
	})

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "calculate_lumpsum_returns",
			Description: "Calculate lumpsum investment returns with CAGR.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"purchase_nav":      {Type: genai.TypeNumber, Description: "NAV at time of purchase."},
					"current_nav":       {Type: genai.TypeNumber, Description: "Current NAV."},
					"investment_amount": {Type: genai.TypeNumber, Description: "Lumpsum investment amount."},
					"holding_years":     {Type: genai.TypeNumber, Description: "Holding period in years."},
				},
				Required: []string{"purchase_nav", "current_nav", "investment_amount", "holding_years"},
			},
		},
		Call: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return LumpsumReturns(
				argFloat(args, "purchase_nav", 0),
				argFloat(args, "current_nav", 0),
				argFloat(args, "investment_amount", 0),
				argFloat(args, "holding_years", 0))
		},
	})

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "calculate_capital_gains_tax",
			Description: "Calculate Indian capital gains tax on equity mutual fund gains (STCG 20% under 12 months, LTCG 12.5% above the exemption).",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"gain_amount":    {Type: genai.TypeNumber, Description: "Capital gain in rupees."},
					"holding_months": {Type: genai.TypeInteger, Description: "Holding period in months."},
					"fund_type":      {Type: genai.TypeString, Description: "'equity' or 'debt', default equity."},
				},
				Required: []string{"gain_amount", "holding_months"},
			},
		},
		Call: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			fundType := argString(args, "fund_type")
			if fundType == "" {
				fundType = "equity"
			}
			return CapitalGainsTax(argFloat(args, "gain_amount", 0), argInt(args, "holding_months", 0), fundType)
		},
	})

	return r
}

func categoryToolName(category string) string {
	switch category {
	case "Large Cap":
		return "get_large_cap_funds"
	case "Mid Cap":
		return "get_mid_cap_funds"
	default:
		return "get_small_cap_funds"
	}
}

// Function-call args arrive as loosely typed JSON values.

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func argFloat(args map[string]any, key string, fallback float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

func argInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
