package lynch

import "fmt"

// Kind is the type of value a canonical field holds.
type Kind int

const (
	Number Kind = iota // finite float64
	Text               // sector, industry
	Flag               // boolean signals such as sgaTrend
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	case Flag:
		return "flag"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Group classifies fields for display.
type Group string

const (
	GroupProfile   Group = "profile"
	GroupValuation Group = "valuation"
	GroupIncome    Group = "income"
	GroupBalance   Group = "balance"
	GroupCashflow  Group = "cashflow"
	GroupRatio     Group = "ratio"
	GroupGrowth    Group = "growth"
)

// Field is a canonical, provider independent metric.
//
// The zero value is not a valid field.
type Field int

const (
	_ Field = iota
	Sector
	Industry
	MarketCap
	PERatio
	PriceToBook
	PEGRatio
	EPS
	DividendYield
	DividendRate
	PayoutRatio
	Beta
	Revenue
	NetIncome
	SGA
	ProfitMargin
	TotalAssets
	TotalCurrentAssets
	TotalCurrentLiabilities
	Inventory
	TotalCash
	TotalStockholderEquity
	LongTermDebt
	ShortTermDebt
	ShortLongTermDebtTotal
	TotalDebt
	SharesOutstanding
	OperatingCashflow
	CapitalExpenditures
	FreeCashFlow
	CurrentRatio
	QuickRatio
	DebtToEquity
	DebtToAssets
	CashToDebt
	EquityRatio
	BookValuePerShare
	CashPerShare
	FreeCashFlowPerShare
	FCFMargin
	RevenueGrowth
	EarningsGrowth
	EPSGrowth
	RevenueGrowthQoQ
	EarningsGrowthQoQ
	EPSGrowthQoQ
	SGATrend

	fieldCount
)

type fieldInfo struct {
	name  string
	kind  Kind
	group Group
	desc  string
}

var fieldInfos = [fieldCount]fieldInfo{
	Sector:                  {"sector", Text, GroupProfile, "Economic sector the company operates in."},
	Industry:                {"industry", Text, GroupProfile, "Industry within the sector."},
	MarketCap:               {"marketCap", Number, GroupValuation, "Market capitalization in the reporting currency."},
	PERatio:                 {"peRatio", Number, GroupValuation, "Price to earnings ratio: how much investors pay for one unit of earnings."},
	PriceToBook:             {"priceToBook", Number, GroupValuation, "Price to book ratio: share price compared with book value per share."},
	PEGRatio:                {"pegRatio", Number, GroupValuation, "P/E divided by earnings growth in percentage points."},
	EPS:                     {"eps", Number, GroupValuation, "Earnings per share."},
	DividendYield:           {"dividendYield", Number, GroupValuation, "Yearly dividend as a fraction of the share price."},
	DividendRate:            {"dividendRate", Number, GroupValuation, "Trailing yearly dividend per share."},
	PayoutRatio:             {"payoutRatio", Number, GroupValuation, "Fraction of earnings paid out as dividends."},
	Beta:                    {"beta", Number, GroupValuation, "Volatility relative to the market."},
	Revenue:                 {"revenue", Number, GroupIncome, "Total revenue for the period."},
	NetIncome:               {"netIncome", Number, GroupIncome, "Net income for the period."},
	SGA:                     {"sellingGeneralAdministrative", Number, GroupIncome, "Selling, general and administrative expenses."},
	ProfitMargin:            {"profitMargin", Number, GroupRatio, "Net income divided by revenue."},
	TotalAssets:             {"totalAssets", Number, GroupBalance, "Total assets."},
	TotalCurrentAssets:      {"totalCurrentAssets", Number, GroupBalance, "Assets convertible to cash within a year."},
	TotalCurrentLiabilities: {"totalCurrentLiabilities", Number, GroupBalance, "Liabilities due within a year."},
	Inventory:               {"inventory", Number, GroupBalance, "Inventory on the balance sheet."},
	TotalCash:               {"totalCash", Number, GroupBalance, "Cash and cash equivalents."},
	TotalStockholderEquity:  {"totalStockholderEquity", Number, GroupBalance, "Total shareholder equity."},
	LongTermDebt:            {"longTermDebt", Number, GroupBalance, "Long term debt."},
	ShortTermDebt:           {"shortTermDebt", Number, GroupBalance, "Short term debt."},
	ShortLongTermDebtTotal:  {"shortLongTermDebtTotal", Number, GroupBalance, "Combined short and long term debt as reported."},
	TotalDebt:               {"totalDebt", Number, GroupBalance, "Total debt."},
	SharesOutstanding:       {"sharesOutstanding", Number, GroupBalance, "Number of shares outstanding."},
	OperatingCashflow:       {"operatingCashflow", Number, GroupCashflow, "Cash flow from operating activities."},
	CapitalExpenditures:     {"capitalExpenditures", Number, GroupCashflow, "Capital expenditures."},
	FreeCashFlow:            {"freeCashFlow", Number, GroupCashflow, "Operating cash flow minus capital expenditures."},
	CurrentRatio:            {"currentRatio", Number, GroupRatio, "Current assets divided by current liabilities."},
	QuickRatio:              {"quickRatio", Number, GroupRatio, "Current assets without inventory divided by current liabilities."},
	DebtToEquity:            {"debtToEquity", Number, GroupRatio, "Total debt divided by equity; lower means less risk."},
	DebtToAssets:            {"debtToAssets", Number, GroupRatio, "Total debt divided by total assets."},
	CashToDebt:              {"cashToDebt", Number, GroupRatio, "Cash divided by total debt."},
	EquityRatio:             {"equityRatio", Number, GroupRatio, "Equity divided by total assets."},
	BookValuePerShare:       {"bookValuePerShare", Number, GroupRatio, "Equity value per share."},
	CashPerShare:            {"cashPerShare", Number, GroupRatio, "Cash per share."},
	FreeCashFlowPerShare:    {"freeCashFlowPerShare", Number, GroupRatio, "Free cash flow per share."},
	FCFMargin:               {"fcfMargin", Number, GroupRatio, "Free cash flow divided by revenue."},
	RevenueGrowth:           {"revenueGrowth", Number, GroupGrowth, "Revenue growth versus the same quarter a year earlier."},
	EarningsGrowth:          {"earningsGrowth", Number, GroupGrowth, "Earnings growth versus the same quarter a year earlier."},
	EPSGrowth:               {"epsGrowth", Number, GroupGrowth, "EPS growth versus the same quarter a year earlier."},
	RevenueGrowthQoQ:        {"revenueGrowthQoQ", Number, GroupGrowth, "Revenue growth versus the preceding quarter."},
	EarningsGrowthQoQ:       {"earningsGrowthQoQ", Number, GroupGrowth, "Earnings growth versus the preceding quarter."},
	EPSGrowthQoQ:            {"epsGrowthQoQ", Number, GroupGrowth, "EPS growth versus the preceding quarter."},
	SGATrend:                {"sgaTrend", Flag, GroupGrowth, "True when the SG&A to revenue ratio is declining."},
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, fieldCount)
	for _, f := range Fields() {
		m[f.String()] = f
	}
	return m
}()

// Fields returns all canonical fields in canonical order.
func Fields() []Field {
	fields := make([]Field, 0, fieldCount-1)
	for f := Field(1); f < fieldCount; f++ {
		fields = append(fields, f)
	}
	return fields
}

// Valid reports whether f is a known canonical field.
func (f Field) Valid() bool { return f > 0 && f < fieldCount }

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldInfos[f].name
}

// Kind returns the kind of value the field holds.
func (f Field) Kind() Kind { return fieldInfos[f].kind }

// Group returns the display group of the field.
func (f Field) Group() Group { return fieldInfos[f].group }

// Description returns a one sentence explanation of the metric.
func (f Field) Description() string { return fieldInfos[f].desc }

// ParseField returns the field with the given canonical name.
func ParseField(name string) (Field, error) {
	f, ok := fieldsByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown canonical field %q", name)
	}
	return f, nil
}

func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid field %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *Field) UnmarshalText(b []byte) error {
	p, err := ParseField(string(b))
	if err != nil {
		return err
	}
	*f = p
	return nil
}
