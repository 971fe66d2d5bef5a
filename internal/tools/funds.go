package tools

import (
	"context"
	"fmt"

	"mfadvisor-backend/internal/mfapi"
)

const categoryResultLimit = 15

// Toolbelt bundles every callable the advisor agents can reach. Fund
// data comes from the AMFI quote API; the calculators are pure.
type Toolbelt struct {
	mf *mfapi.Client
}

func NewToolbelt(mf *mfapi.Client) *Toolbelt {
	return &Toolbelt{mf: mf}
}

// SchemeDetails returns metadata and the latest NAV for a scheme.
func (tb *Toolbelt) SchemeDetails(ctx context.Context, schemeCode string) (map[string]any, error) {
	quote, err := tb.mf.SchemeQuote(ctx, schemeCode)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scheme details: %w", err)
	}

	nav, lastUpdated := "", ""
	if len(quote.Data) > 0 {
		nav = quote.Data[0].NAV
		lastUpdated = quote.Data[0].Date
	}

	return map[string]any{
		"scheme_code":     schemeCode,
		"scheme_name":     quote.Meta.SchemeName,
		"nav":             nav,
		"last_updated":    lastUpdated,
		"scheme_type":     quote.Meta.SchemeType,
		"scheme_category": quote.Meta.SchemeCategory,
		"fund_house":      quote.Meta.FundHouse,
	}, nil
}

// HistoricalNAV returns up to days of the most recent NAV history.
func (tb *Toolbelt) HistoricalNAV(ctx context.Context, schemeCode string, days int) (map[string]any, error) {
	history, err := tb.mf.SchemeHistory(ctx, schemeCode)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical NAV: %w", err)
	}

	if days <= 0 {
		days = 30
	}
	entries := history.Data
	if len(entries) > days {
		entries = entries[:days]
	}

	return map[string]any{
		"scheme_code":    schemeCode,
		"scheme_name":    history.Meta.SchemeName,
		"historical_nav": entries,
		"fund_house":     history.Meta.FundHouse,
	}, nil
}

// CategoryFunds lists up to 15 schemes matching an equity category such
// as "Large Cap".
func (tb *Toolbelt) CategoryFunds(ctx context.Context, category string) (map[string]any, error) {
	matches, err := tb.mf.SearchSchemes(ctx, category, categoryResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s funds: %w", category, err)
	}
	return map[string]any{
		"category": category,
		"funds":    matches,
	}, nil
}

// SIPReturnsForScheme fetches a scheme's NAV history and runs the SIP
// calculator over it.
func (tb *Toolbelt) SIPReturnsForScheme(ctx context.Context, schemeCode string, monthlySIP float64, investmentMonths int) (map[string]any, error) {
	history, err := tb.mf.SchemeHistory(ctx, schemeCode)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate SIP returns: %w", err)
	}
	return SIPReturns(history, monthlySIP, investmentMonths)
}
