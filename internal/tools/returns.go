package tools

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"mfadvisor-backend/internal/mfapi"
)

const navDateLayout = "02-01-2006"

// monthlyIRR computes the monthly internal rate of return for evenly
// spaced cash flows by bisection on the NPV. Returns 0 when no root can
// be bracketed.
func monthlyIRR(cashFlows []float64) float64 {
	npv := func(rate float64) float64 {
		total := 0.0
		factor := 1.0
		for _, cf := range cashFlows {
			total += cf / factor
			factor *= 1 + rate
		}
		return total
	}

	low, high := -0.9999, 1.0
	npvLow := npv(low)
	npvHigh := npv(high)

	// Expand the upper bound until the root is bracketed or we give up.
	for steps := 0; npvLow*npvHigh > 0 && steps < 10; steps++ {
		high += 1.0
		npvHigh = npv(high)
	}
	if npvLow*npvHigh > 0 {
		return 0.0
	}

	rate := 0.0
	for i := 0; i < 200; i++ {
		rate = (low + high) / 2
		npvMid := npv(rate)
		if math.Abs(npvMid) < 1e-6 {
			return rate
		}
		if npvLow*npvMid < 0 {
			high = rate
		} else {
			low = rate
			npvLow = npvMid
		}
	}
	return rate
}

// SIPReturns computes returns for a monthly SIP against a scheme's NAV
// history: one purchase per month at that month's latest NAV, valued at
// the most recent NAV, with the annualized IRR of the cash flows.
func SIPReturns(history *mfapi.SchemeHistory, monthlySIP float64, investmentMonths int) (map[string]any, error) {
	if len(history.Data) == 0 {
		return nil, fmt.Errorf("no historical NAV data available for SIP calculation")
	}
	if monthlySIP <= 0 || investmentMonths <= 0 {
		return nil, fmt.Errorf("monthly SIP and investment months must be positive")
	}

	type navEntry struct {
		date time.Time
		nav  float64
	}

	chronological := make([]navEntry, 0, len(history.Data))
	for _, point := range history.Data {
		date, err := time.Parse(navDateLayout, point.Date)
		if err != nil {
			continue
		}
		nav, err := strconv.ParseFloat(point.NAV, 64)
		if err != nil || nav <= 0 {
			continue
		}
		chronological = append(chronological, navEntry{date: date, nav: nav})
	}
	if len(chronological) == 0 {
		return nil, fmt.Errorf("no parseable NAV data for SIP calculation")
	}
	sort.Slice(chronological, func(i, j int) bool {
		return chronological[i].date.Before(chronological[j].date)
	})

	// Latest NAV per month, months in chronological order.
	monthlyNAVs := make(map[string]float64)
	var months []string
	for _, entry := range chronological {
		key := entry.date.Format("2006-01")
		if _, seen := monthlyNAVs[key]; !seen {
			months = append(months, key)
		}
		monthlyNAVs[key] = entry.nav
	}

	if len(months) < investmentMonths {
		return nil, fmt.Errorf("only %d months of NAV data available; %d required for SIP calculation",
			len(months), investmentMonths)
	}

	selected := months[len(months)-investmentMonths:]

	totalUnits := 0.0
	cashFlows := make([]float64, 0, investmentMonths+1)
	for _, month := range selected {
		totalUnits += monthlySIP / monthlyNAVs[month]
		cashFlows = append(cashFlows, -monthlySIP)
	}

	currentNAV := chronological[len(chronological)-1].nav
	currentValue := totalUnits * currentNAV
	cashFlows = append(cashFlows, currentValue)

	totalInvested := monthlySIP * float64(investmentMonths)
	absoluteGain := currentValue - totalInvested
	absoluteReturnPct := 0.0
	if totalInvested != 0 {
		absoluteReturnPct = absoluteGain / totalInvested * 100
	}

	irrAnnualized := (math.Pow(1+monthlyIRR(cashFlows), 12) - 1) * 100

	return map[string]any{
		"scheme_code":         strconv.Itoa(history.Meta.SchemeCode),
		"scheme_name":         history.Meta.SchemeName,
		"current_nav":         currentNAV,
		"months_considered":   investmentMonths,
		"total_invested":      round2(totalInvested),
		"units_accumulated":   round3(totalUnits),
		"current_value":       round2(currentValue),
		"absolute_gain":       round2(absoluteGain),
		"absolute_return_pct": round2(absoluteReturnPct),
		"irr_annualized_pct":  round2(irrAnnualized),
	}, nil
}

// LumpsumReturns computes returns for a one-time investment, including
// the CAGR over the holding period.
func LumpsumReturns(purchaseNAV, currentNAV, investmentAmount, holdingYears float64) (map[string]any, error) {
	if purchaseNAV <= 0 {
		return nil, fmt.Errorf("purchase NAV must be positive")
	}
	if investmentAmount <= 0 {
		return nil, fmt.Errorf("investment amount must be positive")
	}
	if holdingYears <= 0 {
		return nil, fmt.Errorf("holding years must be positive")
	}

	units := investmentAmount / purchaseNAV
	currentValue := units * currentNAV
	gain := currentValue - investmentAmount
	absoluteReturn := gain / investmentAmount * 100
	cagr := (math.Pow(currentValue/investmentAmount, 1/holdingYears) - 1) * 100

	return map[string]any{
		"invested_amount":     investmentAmount,
		"units_purchased":     round3(units),
		"purchase_nav":        purchaseNAV,
		"current_nav":         currentNAV,
		"current_value":       round2(currentValue),
		"gain":                round2(gain),
		"absolute_return_pct": round2(absoluteReturn),
		"cagr_pct":            round2(cagr),
	}, nil
}

// CapitalGainsTax applies Indian equity fund taxation: STCG under 12
// months at 20%, LTCG at 12.5% on gains above the ₹1.25 lakh exemption.
// Debt fund taxation depends on the investor's slab and is rejected.
func CapitalGainsTax(gainAmount float64, holdingMonths int, fundType string) (map[string]any, error) {
	if fundType != "" && fundType != "equity" && fundType != "Equity" {
		return nil, fmt.Errorf("debt fund taxation requires income tax slab information")
	}

	if holdingMonths < 12 {
		tax := gainAmount * 0.20
		return map[string]any{
			"fund_type":             "Equity",
			"holding_period_months": holdingMonths,
			"gain_type":             "Short Term (STCG)",
			"tax_rate":              "20%",
			"taxable_gain":          gainAmount,
			"tax_amount":            round2(tax),
			"post_tax_gain":         round2(gainAmount - tax),
		}, nil
	}

	const exemptAmount = 125000.0
	taxableGain := math.Max(0, gainAmount-exemptAmount)
	tax := taxableGain * 0.125
	return map[string]any{
		"fund_type":             "Equity",
		"holding_period_months": holdingMonths,
		"gain_type":             "Long Term (LTCG)",
		"tax_rate":              "12.5%",
		"total_gain":            gainAmount,
		"exempt_amount":         exemptAmount,
		"taxable_gain":          taxableGain,
		"tax_amount":            round2(tax),
		"post_tax_gain":         round2(gainAmount - tax),
	}, nil
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
