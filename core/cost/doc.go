// Package cost estimates the USD price of a gateway call from its token
// usage.
//
// [ModelCost] holds per-million-token prices; a [Table] maps model ids to
// prices and is usually loaded from a JSON file with [LoadTable]. The
// devtools recorder uses a table to attach a [Breakdown] to every captured
// entry whose model it knows.
package cost
