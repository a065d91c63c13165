package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

// loadBundle reads a JSON portfolio bundle from path, or from stdin when path is "-".
func loadBundle(path string) (*models.PortfolioBundle, error) {
	if path == "" {
		return nil, fmt.Errorf("a portfolio bundle is required (-bundle)")
	}

	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open bundle: %w", err)
		}
		defer f.Close()
		r = f
	}
	return decodeBundle(r)
}

// decodeBundle parses and sanity-checks a bundle. Unknown transaction types
// are rejected; a missing portfolio id disables caching only.
func decodeBundle(r io.Reader) (*models.PortfolioBundle, error) {
	var bundle models.PortfolioBundle
	dec := json.NewDecoder(r)
	if err := dec.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}

	for i := range bundle.Transactions {
		t := &bundle.Transactions[i]
		typ, ok := models.ParseTransactionType(string(t.Type))
		if !ok {
			return nil, fmt.Errorf("transaction %d (%s): unknown type %q", i, t.ID, t.Type)
		}
		t.Type = typ
		if t.TradeTime.IsZero() {
			return nil, fmt.Errorf("transaction %d (%s): trade_time is required", i, t.ID)
		}
	}
	return &bundle, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
