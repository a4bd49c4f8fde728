package config

// Tier is a named, ordered group of symbols.
type Tier struct {
	Name    string   `yaml:"name" validate:"required" jsonschema:"description=Tier name such as tier_1 or benchmark"`
	Symbols []string `yaml:"symbols" validate:"required,min=1,dive,required,uppercase" jsonschema:"description=Ticker symbols in ingestion order"`
}

// Portfolio is the ordered list of tiers the pipeline ingests.
type Portfolio struct {
	Tiers []Tier `yaml:"tiers" validate:"required,min=1,dive" jsonschema:"description=Tiers in ingestion order"`
}

// DefaultPortfolio returns the AI equity portfolio.
func DefaultPortfolio() Portfolio {
	return Portfolio{
		Tiers: []Tier{
			{Name: "tier_1", Symbols: []string{"NVDA", "MSFT", "GOOGL", "AMZN", "META", "AAPL"}},
			{Name: "tier_2", Symbols: []string{"AMD", "CRM", "ORCL"}},
			{Name: "tier_3", Symbols: []string{"PLTR", "AI", "SNOW", "MDB", "SMCI"}},
			{Name: "benchmark", Symbols: []string{"BOTZ"}},
		},
	}
}

// AllSymbols flattens the tiers in tier order, then symbol order.
// The returned slice is a fresh copy.
func (p Portfolio) AllSymbols() []string {
	var symbols []string
	for _, tier := range p.Tiers {
		symbols = append(symbols, tier.Symbols...)
	}

	return symbols
}

// Tier returns a copy of the symbols of the named tier.
func (p Portfolio) Tier(name string) ([]string, bool) {
	for _, tier := range p.Tiers {
		if tier.Name == name {
			return append([]string(nil), tier.Symbols...), true
		}
	}

	return nil, false
}

// duplicate returns the first symbol that appears more than once, if any.
func (p Portfolio) duplicate() (string, bool) {
	seen := make(map[string]struct{})
	for _, symbol := range p.AllSymbols() {
		if _, ok := seen[symbol]; ok {
			return symbol, true
		}

		seen[symbol] = struct{}{}
	}

	return "", false
}
