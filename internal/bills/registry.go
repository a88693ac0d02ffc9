package bills

import (
	"fmt"
	"sync"
)

// ParserFunc parses a supplier bill PDF at the given path into a RawBill.
type ParserFunc func(path string) (*RawBill, error)

// TextParserFunc parses extracted PDF text (the test seam).
type TextParserFunc func(text string) (*RawBill, error)

// ParserConfig holds the configuration for a supplier's bill parser.
type ParserConfig struct {
	// Key is the unique identifier for this supplier (e.g. "esb", "flogas").
	Key string

	// Name is the human-readable supplier name.
	Name string

	// Utility is the utility type this supplier bills for.
	Utility UtilityType

	// ParsePDF parses a bill PDF at the given path.
	ParsePDF ParserFunc

	// ParseText parses extracted text from a bill PDF.
	ParseText TextParserFunc
}

var (
	parsersMu sync.RWMutex
	parsers   = make(map[string]ParserConfig)
)

// RegisterParser registers a bill parser for a supplier. Typically called
// from an init() function in each parser file.
func RegisterParser(cfg ParserConfig) {
	if cfg.Key == "" {
		panic("bills: RegisterParser called with empty key")
	}
	if cfg.ParsePDF == nil {
		panic(fmt.Sprintf("bills: RegisterParser(%q) called with nil ParsePDF", cfg.Key))
	}

	parsersMu.Lock()
	defer parsersMu.Unlock()

	if _, exists := parsers[cfg.Key]; exists {
		panic(fmt.Sprintf("bills: RegisterParser called twice for key %q", cfg.Key))
	}
	parsers[cfg.Key] = cfg
}

// GetParser returns the parser configuration for a supplier key.
func GetParser(key string) (ParserConfig, bool) {
	parsersMu.RLock()
	defer parsersMu.RUnlock()

	cfg, ok := parsers[key]
	return cfg, ok
}

// ListParsers returns all registered supplier keys.
func ListParsers() []string {
	parsersMu.RLock()
	defer parsersMu.RUnlock()

	keys := make([]string, 0, len(parsers))
	for k := range parsers {
		keys = append(keys, k)
	}
	return keys
}

// ParseBillPDF looks up the parser for a supplier and parses the PDF at the
// given path into a RawBill tagged with the hotel key.
func ParseBillPDF(supplier, hotelKey, path string) (*RawBill, error) {
	parser, ok := GetParser(supplier)
	if !ok {
		return nil, fmt.Errorf("no parser registered for supplier: %s", supplier)
	}
	bill, err := parser.ParsePDF(path)
	if err != nil {
		return nil, err
	}
	bill.HotelID = hotelKey
	return bill, nil
}
