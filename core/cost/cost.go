package cost

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ModelCost represents the pricing structure for a language model.
// Costs are expressed in USD per million tokens.
//
// Example usage:
//
//	modelCost := cost.ModelCost{
//	    InputCostPerMillion:     2.50,
//	    OutputCostPerMillion:    10.00,
//	    CacheReadCostPerMillion: 1.25,
//	}
type ModelCost struct {
	// InputCostPerMillion is the cost in USD per 1 million input tokens
	InputCostPerMillion float64 `json:"input_cost_per_million"`

	// OutputCostPerMillion is the cost in USD per 1 million output tokens
	OutputCostPerMillion float64 `json:"output_cost_per_million"`

	// CacheCreationCostPerMillion is charged for tokens written to a prompt
	// cache (optional)
	CacheCreationCostPerMillion float64 `json:"cache_creation_cost_per_million,omitempty"`

	// CacheReadCostPerMillion is charged for tokens served from a prompt
	// cache (optional)
	CacheReadCostPerMillion float64 `json:"cache_read_cost_per_million,omitempty"`
}

// Tokens are the usage counts a price is applied to.
type Tokens struct {
	Input         int64
	Output        int64
	CacheCreation int64
	CacheRead     int64
}

// Breakdown is the estimated price of one call. It encodes as the devtools
// metadata.cost object.
type Breakdown struct {
	InputCost         float64 `json:"input_cost,omitempty"`
	OutputCost        float64 `json:"output_cost,omitempty"`
	CacheCreationCost float64 `json:"cache_creation_cost,omitempty"`
	CacheReadCost     float64 `json:"cache_read_cost,omitempty"`
	TotalCost         float64 `json:"total_cost"`
}

func perMillion(tokens int64, price float64) float64 {
	return (float64(tokens) / 1_000_000.0) * price
}

// Estimate prices t. Each count is charged at its own rate; cache counts with
// no rate configured cost nothing.
func (mc ModelCost) Estimate(t Tokens) Breakdown {
	b := Breakdown{
		InputCost:         perMillion(t.Input, mc.InputCostPerMillion),
		OutputCost:        perMillion(t.Output, mc.OutputCostPerMillion),
		CacheCreationCost: perMillion(t.CacheCreation, mc.CacheCreationCostPerMillion),
		CacheReadCost:     perMillion(t.CacheRead, mc.CacheReadCostPerMillion),
	}
	b.TotalCost = b.InputCost + b.OutputCost + b.CacheCreationCost + b.CacheReadCost
	return b
}

// String returns a formatted string representation of the model costs.
func (mc ModelCost) String() string {
	return fmt.Sprintf("Input: $%.6f/M, Output: $%.6f/M",
		mc.InputCostPerMillion, mc.OutputCostPerMillion)
}

// Table maps model ids, such as "openai/gpt-5-nano", to prices.
type Table map[string]ModelCost

// Lookup finds the price of model. An id with a provider prefix falls back
// to the bare model name, so "openai/gpt-5-nano" matches a "gpt-5-nano" row.
func (t Table) Lookup(model string) (ModelCost, bool) {
	if model == "" {
		return ModelCost{}, false
	}
	if mc, ok := t[model]; ok {
		return mc, true
	}
	if _, bare, found := strings.Cut(model, "/"); found {
		mc, ok := t[bare]
		return mc, ok
	}
	return ModelCost{}, false
}

// LoadTable reads a JSON object of model id to ModelCost.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading pricing table: %w", err)
	}
	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("error decoding pricing table %s: %w", path, err)
	}
	return table, nil
}
