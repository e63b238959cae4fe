package universe

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// constituent is one row of the universe file. Extra columns
// (name, sector, ...) are ignored.
type constituent struct {
	Symbol string `csv:"Symbol"`
}

// LoadFile reads the ticker universe from a CSV file with a Symbol column.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads the ticker universe from r.
//
// Behavior:
//   - Blank symbols are skipped; surrounding spaces are trimmed.
//   - Dots are mapped to dashes to match provider identifiers (BRK.B -> BRK-B).
//   - File order is preserved and duplicates are dropped.
func Load(r io.Reader) ([]string, error) {
	var rows []constituent
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse universe csv: %w", err)
	}

	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		sym := ProviderSymbol(row.Symbol)
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out, nil
}

// ProviderSymbol normalizes a listing symbol to the provider's form.
func ProviderSymbol(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), ".", "-")
}
