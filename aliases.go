package lynch

import (
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// aliases lists, per canonical field, the raw names tried in order.
//
// One table serves every provider: Alpha Vantage (PascalCase overview keys,
// camelCase statements), Financial Modeling Prep (camelCase, TTM suffixes),
// yfinance style feeds, and EODHD fundamentals. Aliases starting with '$' are
// JSONPath expressions into nested payloads; the rest are top level keys.
// More specific names come first.
var aliases = map[Field][]string{
	Sector:   {"sector", "Sector", "$.General.Sector"},
	Industry: {"industry", "Industry", "$.General.Industry"},

	MarketCap:     {"marketCap", "MarketCapitalization", "mktCap", "$.Highlights.MarketCapitalization"},
	PERatio:       {"peRatio", "PERatio", "peRatioTTM", "priceEarningsRatioTTM", "priceEarningsRatio", "trailingPE", "pe", "TrailingPE", "$.Highlights.PERatio", "$.Valuation.TrailingPE"},
	PriceToBook:   {"priceToBook", "PriceToBookRatio", "priceToBookRatioTTM", "priceToBookRatio", "pbRatio", "$.Valuation.PriceBookMRQ"},
	PEGRatio:      {"pegRatio", "PEGRatio", "pegRatioTTM", "priceEarningsToGrowthRatio", "$.Highlights.PEGRatio"},
	EPS:           {"eps", "reportedEPS", "epsActual", "epsdiluted", "EPS", "trailingEps", "$.Highlights.EarningsShare"},
	DividendYield: {"dividendYield", "DividendYield", "dividendYieldTTM", "$.Highlights.DividendYield"},
	DividendRate:  {"dividendRate", "trailingAnnualDividendRate", "DividendPerShare", "lastDiv", "$.Highlights.DividendShare"},
	PayoutRatio:   {"payoutRatio", "PayoutRatio", "payoutRatioTTM", "$.SplitsDividends.PayoutRatio"},
	Beta:          {"beta", "Beta", "$.Technicals.Beta"},

	Revenue:      {"revenue", "totalRevenue"},
	NetIncome:    {"netIncome", "NetIncome", "netIncomeApplicableToCommonShares"},
	SGA:          {"sellingGeneralAdministrative", "sellingGeneralAndAdministrative", "sellingGeneralAndAdministrativeExpenses", "sellingGeneralAndAdministration", "sellingGeneralAndAdmin"},
	ProfitMargin: {"profitMargin", "ProfitMargin", "profitMargins", "netProfitMargin", "$.Highlights.ProfitMargin"},

	TotalAssets:             {"totalAssets"},
	TotalCurrentAssets:      {"totalCurrentAssets"},
	TotalCurrentLiabilities: {"totalCurrentLiabilities"},
	Inventory:               {"inventory"},
	TotalCash:               {"totalCash", "cashAndCashEquivalentsAtCarryingValue", "cashAndCashEquivalents", "cash"},
	TotalStockholderEquity:  {"totalStockholderEquity", "totalStockholdersEquity", "totalShareholderEquity"},
	LongTermDebt:            {"longTermDebt", "longTermDebtNoncurrent"},
	ShortTermDebt:           {"shortTermDebt", "currentDebt"},
	ShortLongTermDebtTotal:  {"shortLongTermDebtTotal"},
	TotalDebt:               {"totalDebt"},
	SharesOutstanding:       {"sharesOutstanding", "SharesOutstanding", "commonStockSharesOutstanding", "$.SharesStats.SharesOutstanding"},

	OperatingCashflow:   {"operatingCashflow", "operatingCashFlow", "totalCashFromOperatingActivities"},
	CapitalExpenditures: {"capitalExpenditures", "capitalExpenditure"},
	FreeCashFlow:        {"freeCashFlow", "freeCashflow"},

	CurrentRatio:         {"currentRatio", "currentRatioTTM"},
	QuickRatio:           {"quickRatio", "quickRatioTTM"},
	DebtToEquity:         {"debtToEquity", "debtEquityRatio", "debtToEquityTTM"},
	DebtToAssets:         {"debtToAssets", "debtRatio"},
	BookValuePerShare:    {"bookValuePerShare", "bookValue", "BookValue", "bookValuePerShareTTM", "$.Highlights.BookValue"},
	CashPerShare:         {"cashPerShare", "totalCashPerShare", "cashPerShareTTM"},
	FreeCashFlowPerShare: {"freeCashFlowPerShare", "freeCashFlowPerShareTTM"},

	RevenueGrowth:  {"revenueGrowth", "QuarterlyRevenueGrowthYOY", "$.Highlights.QuarterlyRevenueGrowthYOY"},
	EarningsGrowth: {"earningsGrowth", "QuarterlyEarningsGrowthYOY", "$.Highlights.QuarterlyEarningsGrowthYOY"},
	EPSGrowth:      {"epsGrowth", "epsgrowth"},

	SGATrend: {"sgaTrend"},
}

// Aliases returns the ordered raw names resolved into f. The result must not be modified.
func Aliases(f Field) []string { return aliases[f] }

// isPath reports whether the alias is a JSONPath expression.
func isPath(alias string) bool { return strings.HasPrefix(alias, "$") }

// ValidateAliases checks the static alias table: every alias belongs to a
// valid field and every JSONPath alias compiles.
func ValidateAliases() error {
	for f, names := range aliases {
		if !f.Valid() {
			return &ConfigurationError{Table: "aliases", Field: f, Reason: "unknown field"}
		}
		for _, name := range names {
			if name == "" {
				return &ConfigurationError{Table: "aliases", Field: f, Reason: "empty alias"}
			}
			if !isPath(name) {
				continue
			}
			if _, err := jsonpath.New(name); err != nil {
				return &ConfigurationError{Table: "aliases", Field: f, Reason: "alias " + name + ": " + err.Error()}
			}
		}
	}
	return nil
}

func init() {
	if err := ValidateAliases(); err != nil {
		panic(err)
	}
}
