package devtools

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"
)

// Stats summarises a set of entries.
type Stats struct {
	TotalRequests   int                       `json:"total_requests"`
	TotalErrors     int                       `json:"total_errors"`
	TotalTokens     int64                     `json:"total_tokens"`
	TotalCost       float64                   `json:"total_cost"`
	TotalDurationMs int64                     `json:"total_duration_ms"`
	ByEndpoint      map[string]*EndpointStats `json:"by_endpoint"`
	ByModel         map[string]*ModelStats    `json:"by_model"`
}

type EndpointStats struct {
	Count         int     `json:"count"`
	Errors        int     `json:"errors"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
	TotalCost     float64 `json:"total_cost"`

	totalDurationMs int64
}

type ModelStats struct {
	Count  int     `json:"count"`
	Tokens int64   `json:"tokens"`
	Cost   float64 `json:"cost"`
}

// ComputeStats aggregates entries. Entries without a model are left out of
// ByModel; entries without metadata.cost add nothing to the cost totals.
func ComputeStats(entries []Entry) Stats {
	stats := Stats{
		ByEndpoint: make(map[string]*EndpointStats),
		ByModel:    make(map[string]*ModelStats),
	}
	for _, e := range entries {
		tokens := e.Metadata.Usage.Total()
		var spent float64
		if e.Metadata.Cost != nil {
			spent = e.Metadata.Cost.TotalCost
		}

		stats.TotalRequests++
		stats.TotalTokens += tokens
		stats.TotalCost += spent
		stats.TotalDurationMs += e.DurationMs

		ep, ok := stats.ByEndpoint[e.Type]
		if !ok {
			ep = &EndpointStats{}
			stats.ByEndpoint[e.Type] = ep
		}
		ep.Count++
		ep.totalDurationMs += e.DurationMs
		ep.TotalCost += spent
		if e.Error != nil {
			stats.TotalErrors++
			ep.Errors++
		}

		if e.Metadata.Model != "" {
			m, ok := stats.ByModel[e.Metadata.Model]
			if !ok {
				m = &ModelStats{}
				stats.ByModel[e.Metadata.Model] = m
			}
			m.Count++
			m.Tokens += tokens
			m.Cost += spent
		}
	}
	for _, ep := range stats.ByEndpoint {
		ep.AvgDurationMs = float64(ep.totalDurationMs) / float64(ep.Count)
	}
	return stats
}

// Endpoints returns the ByEndpoint keys sorted.
func (s Stats) Endpoints() []string {
	keys := make([]string, 0, len(s.ByEndpoint))
	for k := range s.ByEndpoint {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var csvHeader = []string{"id", "type", "timestamp", "duration_ms", "model", "provider", "stream", "total_tokens", "total_cost", "status_code", "error"}

// WriteCSV exports one row per entry with an ISO-8601 UTC timestamp.
// total_cost is 0 for entries without metadata.cost.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}
	for _, e := range entries {
		status := ""
		if e.Metadata.StatusCode != nil {
			status = strconv.Itoa(*e.Metadata.StatusCode)
		}
		totalCost := 0.0
		if e.Metadata.Cost != nil {
			totalCost = e.Metadata.Cost.TotalCost
		}
		errMsg := ""
		if e.Error != nil {
			errMsg = e.Error.Message
		}
		row := []string{
			e.ID,
			e.Type,
			time.UnixMilli(e.Timestamp).UTC().Format(time.RFC3339Nano),
			strconv.FormatInt(e.DurationMs, 10),
			e.Metadata.Model,
			e.Metadata.Provider,
			strconv.FormatBool(e.Metadata.Stream),
			strconv.FormatInt(e.Metadata.Usage.Total(), 10),
			strconv.FormatFloat(totalCost, 'f', -1, 64),
			status,
			errMsg,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
