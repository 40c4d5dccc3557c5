package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/quotedesk/loan-quoter/internal/calculation"
	"github.com/quotedesk/loan-quoter/internal/domain"
)

// QuoteFileConfig is the on-disk shape of a quote file. Currency and
// percentage fields are strings so users can paste formatted values
// ("£1,250,000", "75%"); the numeric input parser normalizes them.
type QuoteFileConfig struct {
	MarketRates  *domain.MarketRates `yaml:"market_rates"`
	RateTable    []domain.RateRecord `yaml:"rate_table"`
	BTLQuotes    []BTLQuoteConfig    `yaml:"btl_quotes"`
	BridgeQuotes []BridgeQuoteConfig `yaml:"bridge_quotes"`
}

// BTLQuoteConfig is one BTL quote request as written in the quote file.
type BTLQuoteConfig struct {
	ColKey      string `yaml:"col_key"`
	ProductCode string `yaml:"product_code"`

	PropertyValue string `yaml:"property_value"`
	MonthlyRent   string `yaml:"monthly_rent"`
	TopSlicing    string `yaml:"top_slicing"`

	LoanType          string `yaml:"loan_type"`
	SpecificGrossLoan string `yaml:"specific_gross_loan"`
	SpecificNetLoan   string `yaml:"specific_net_loan"`
	MaxLTV            string `yaml:"max_ltv"`

	ProductType   string `yaml:"product_type"`
	ProductScope  string `yaml:"product_scope"`
	SelectedRange string `yaml:"selected_range"`
	Tier          int    `yaml:"tier"`

	Criteria map[string]domain.CriteriaAnswer `yaml:"criteria"`

	RetentionChoice string `yaml:"retention_choice"`
	RetentionLTV    string `yaml:"retention_ltv"`

	ProductFeePercent string `yaml:"product_fee_percent"`
	OverriddenRate    string `yaml:"overridden_rate"`

	ManualRolled   *int   `yaml:"manual_rolled"`
	ManualDeferred string `yaml:"manual_deferred"`

	ProcFeePct    string `yaml:"proc_fee_pct"`
	BrokerFeePct  string `yaml:"broker_fee_pct"`
	BrokerFeeFlat string `yaml:"broker_fee_flat"`
}

// BridgeQuoteConfig is one bridge/fusion quote request. Percentages are
// percent-domain strings and converted to fractions at this boundary.
type BridgeQuoteConfig struct {
	Kind string `yaml:"kind"`

	GrossLoan     string `yaml:"gross_loan"`
	PropertyValue string `yaml:"property_value"`

	SubProduct   string `yaml:"sub_product"`
	IsCommercial bool   `yaml:"is_commercial"`

	BBRPct             string `yaml:"bbr_pct"`
	OverrideMonthlyPct string `yaml:"override_monthly_pct"`
	OverrideAnnualPct  string `yaml:"override_annual_pct"`

	RentPM       string `yaml:"rent_pm"`
	TopSlicingPM string `yaml:"top_slicing_pm"`

	TermMonths   *int `yaml:"term_months"`
	RolledMonths int  `yaml:"rolled_months"`

	ArrangementPct string `yaml:"arrangement_pct"`
	DeferredPct    string `yaml:"deferred_pct"`
	ProcFeePct     string `yaml:"proc_fee_pct"`
	BrokerFeeFlat  string `yaml:"broker_fee_flat"`
}

// QuoteBatch is the validated, engine-ready form of a quote file.
type QuoteBatch struct {
	Market domain.MarketRates
	BTL    []domain.BTLRequest
	Bridge []domain.BridgeRequest
}

// Loader parses and validates quote files.
type Loader struct{}

// NewLoader creates a new quote file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadQuoteFile loads a quote batch from a YAML file.
func (l *Loader) LoadQuoteFile(filename string) (*QuoteBatch, error) {
	cfg, err := l.ParseQuoteFile(filename)
	if err != nil {
		return nil, err
	}
	return l.Build(cfg)
}

// ParseQuoteFile reads and unmarshals a quote file without validating or
// converting it, so callers can splice in an external rate table first.
func (l *Loader) ParseQuoteFile(filename string) (*QuoteFileConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var cfg QuoteFileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &cfg, nil
}

// Build validates a parsed quote file and converts it to engine requests.
func (l *Loader) Build(cfg *QuoteFileConfig) (*QuoteBatch, error) {
	if err := l.Validate(cfg); err != nil {
		return nil, fmt.Errorf("quote file validation failed: %w", err)
	}

	batch := &QuoteBatch{Market: domain.DefaultMarketRates()}
	if cfg.MarketRates != nil {
		batch.Market = *cfg.MarketRates
	}

	for i, q := range cfg.BTLQuotes {
		req, err := l.buildBTLRequest(cfg, &q)
		if err != nil {
			return nil, fmt.Errorf("btl quote %d: %w", i, err)
		}
		batch.BTL = append(batch.BTL, *req)
	}
	for i, q := range cfg.BridgeQuotes {
		req, err := l.buildBridgeRequest(&q)
		if err != nil {
			return nil, fmt.Errorf("bridge quote %d: %w", i, err)
		}
		batch.Bridge = append(batch.Bridge, *req)
	}
	return batch, nil
}

// Validate checks the structural rules of a quote file.
func (l *Loader) Validate(cfg *QuoteFileConfig) error {
	if len(cfg.BTLQuotes) == 0 && len(cfg.BridgeQuotes) == 0 {
		return fmt.Errorf("no quotes provided")
	}
	if len(cfg.BTLQuotes) > 0 && len(cfg.RateTable) == 0 {
		return fmt.Errorf("btl quotes require a rate_table")
	}

	for i, r := range cfg.RateTable {
		if err := validateRateRecord(&r); err != nil {
			return fmt.Errorf("rate_table row %d validation failed: %w", i, err)
		}
	}

	for i, q := range cfg.BTLQuotes {
		if err := validateBTLQuote(&q); err != nil {
			return fmt.Errorf("btl quote %d validation failed: %w", i, err)
		}
	}

	for i, q := range cfg.BridgeQuotes {
		if err := validateBridgeQuote(&q); err != nil {
			return fmt.Errorf("bridge quote %d validation failed: %w", i, err)
		}
	}

	return nil
}

func validateRateRecord(r *domain.RateRecord) error {
	if !r.Rate.IsPositive() {
		return fmt.Errorf("rate must be positive")
	}
	if r.MinLoan.IsNegative() {
		return fmt.Errorf("min_loan cannot be negative")
	}
	if r.MaxLoan.IsPositive() && r.MaxLoan.LessThan(r.MinLoan) {
		return fmt.Errorf("max_loan cannot be less than min_loan")
	}
	if r.MaxLTV.IsPositive() && r.MaxLTV.LessThan(r.MinLTV) {
		return fmt.Errorf("max_ltv cannot be less than min_ltv")
	}
	if r.MaxRolledMonths < r.MinRolledMonths {
		return fmt.Errorf("max_rolled_months cannot be less than min_rolled_months")
	}
	if r.MaxDeferInt.LessThan(r.MinDeferInt) {
		return fmt.Errorf("max_defer_int cannot be less than min_defer_int")
	}
	return nil
}

func validateBTLQuote(q *BTLQuoteConfig) error {
	pv, ok := calculation.ParseAmount(q.PropertyValue)
	if !ok || !pv.IsPositive() {
		return fmt.Errorf("property_value must be a positive amount")
	}
	loanType := domain.ParseLoanType(q.LoanType)
	if loanType == domain.LoanTypeSpecificGross && strings.TrimSpace(q.SpecificGrossLoan) == "" {
		return fmt.Errorf("specific_gross_loan is required for a specific gross request")
	}
	if loanType == domain.LoanTypeSpecificNet && strings.TrimSpace(q.SpecificNetLoan) == "" {
		return fmt.Errorf("specific_net_loan is required for a specific net request")
	}
	if strings.EqualFold(q.RetentionChoice, "yes") && strings.TrimSpace(q.RetentionLTV) == "" {
		return fmt.Errorf("retention_ltv is required when retention_choice is Yes")
	}
	return nil
}

func validateBridgeQuote(q *BridgeQuoteConfig) error {
	if _, ok := domain.ParseProductKind(q.Kind); !ok {
		return fmt.Errorf("kind must be one of bridge-var, bridge-fix, fusion")
	}
	gross, ok := calculation.ParseAmount(q.GrossLoan)
	if !ok || !gross.IsPositive() {
		return fmt.Errorf("gross_loan must be a positive amount")
	}
	pv, ok := calculation.ParseAmount(q.PropertyValue)
	if !ok || !pv.IsPositive() {
		return fmt.Errorf("property_value must be a positive amount")
	}
	return nil
}

// buildBTLRequest converts one quote config into an engine request,
// resolving the rate row by product code or best-bracket match.
func (l *Loader) buildBTLRequest(cfg *QuoteFileConfig, q *BTLQuoteConfig) (*domain.BTLRequest, error) {
	req := &domain.BTLRequest{
		ColKey:        q.ColKey,
		PropertyValue: calculation.AmountOrZero(q.PropertyValue),
		MonthlyRent:   calculation.AmountOrZero(q.MonthlyRent),
		TopSlicing:    calculation.AmountOrZero(q.TopSlicing),
		LoanType:      domain.ParseLoanType(q.LoanType),
		MaxLTVInput:   calculation.AmountOrZero(q.MaxLTV),
		ProductType:   q.ProductType,
		ProductScope:  q.ProductScope,
		SelectedRange: q.SelectedRange,
		Tier:          q.Tier,
		Criteria:      q.Criteria,
		ManualRolled:  q.ManualRolled,

		ProductFeePercent: calculation.AmountOrZero(q.ProductFeePercent),
		ProcFeePct:        calculation.AmountOrZero(q.ProcFeePct),
		BrokerFeePct:      calculation.AmountOrZero(q.BrokerFeePct),
		BrokerFeeFlat:     calculation.AmountOrZero(q.BrokerFeeFlat),
	}
	req.SpecificGrossLoan = calculation.ParseOptionalAmount(q.SpecificGrossLoan)
	req.SpecificNetLoan = calculation.ParseOptionalAmount(q.SpecificNetLoan)
	req.OverriddenRate = calculation.ParseOptionalAmount(q.OverriddenRate)
	req.ManualDeferred = calculation.ParseOptionalAmount(q.ManualDeferred)
	req.RetentionLTV = calculation.ParseOptionalAmount(q.RetentionLTV)
	if strings.EqualFold(q.RetentionChoice, "yes") {
		req.RetentionChoice = domain.RetentionYes
	} else {
		req.RetentionChoice = domain.RetentionNo
	}

	rate, err := resolveRate(cfg.RateTable, q, req)
	if err != nil {
		return nil, err
	}
	req.SelectedRate = *rate
	return req, nil
}

// resolveRate finds the rate row for a quote: an explicit product code wins,
// otherwise the resolver picks the best LTV bracket (or loan-size bracket
// for specific gross requests).
func resolveRate(table []domain.RateRecord, q *BTLQuoteConfig, req *domain.BTLRequest) (*domain.RateRecord, error) {
	if code := strings.TrimSpace(q.ProductCode); code != "" {
		for i := range table {
			if strings.EqualFold(table[i].ProductCode, code) {
				return &table[i], nil
			}
		}
		return nil, fmt.Errorf("product code %q not found in rate table", code)
	}

	if req.LoanType == domain.LoanTypeSpecificGross && req.SpecificGrossLoan != nil {
		if rate := calculation.PickBestRate(table, *req.SpecificGrossLoan, true, calculation.LoanBracket); rate != nil {
			return rate, nil
		}
	}
	target, haveTarget := calculation.ParseAmount(q.MaxLTV)
	if rate := calculation.PickBestRate(table, target, haveTarget, calculation.LTVBracket); rate != nil {
		return rate, nil
	}
	return nil, fmt.Errorf("no usable rate row for quote %q", q.ColKey)
}

// buildBridgeRequest converts one bridge quote config into an engine
// request, translating percent-domain strings to fractions.
func (l *Loader) buildBridgeRequest(q *BridgeQuoteConfig) (*domain.BridgeRequest, error) {
	kind, _ := domain.ParseProductKind(q.Kind)
	req := &domain.BridgeRequest{
		Kind:           kind,
		GrossLoanInput: calculation.AmountOrZero(q.GrossLoan),
		PropertyValue:  calculation.AmountOrZero(q.PropertyValue),
		SubProduct:     q.SubProduct,
		IsCommercial:   q.IsCommercial,
		RentPM:         calculation.AmountOrZero(q.RentPM),
		TopSlicingPM:   calculation.AmountOrZero(q.TopSlicingPM),
		TermMonths:     q.TermMonths,
		RolledMonths:   q.RolledMonths,
		BrokerFeeFlat:  calculation.AmountOrZero(q.BrokerFeeFlat),
	}
	req.BBR = percentToFractionPtr(q.BBRPct)
	req.OverrideMonthly = percentToFractionPtr(q.OverrideMonthlyPct)
	req.OverrideAnnual = percentToFractionPtr(q.OverrideAnnualPct)
	req.ArrangementPct = percentToFractionPtr(q.ArrangementPct)
	if d := percentToFractionPtr(q.DeferredPct); d != nil {
		req.DeferredPct = *d
	}
	if d := percentToFractionPtr(q.ProcFeePct); d != nil {
		req.ProcFeePct = *d
	}
	return req, nil
}

func percentToFractionPtr(raw string) *decimal.Decimal {
	pct, ok := calculation.ParseAmount(raw)
	if !ok {
		return nil
	}
	frac := pct.Div(decimal.NewFromInt(100))
	return &frac
}
