package risk

// SectorOther is the fallback classification for unmapped symbols.
const SectorOther = "Other"

// SectorMap resolves symbols to sector classifications. The lookup is
// total: every symbol resolves to some sector, unmapped ones to "Other".
// Read-only after construction.
type SectorMap struct {
	bySymbol map[string]string
}

// NewSectorMap builds a sector map from a symbol -> sector table.
func NewSectorMap(bySymbol map[string]string) *SectorMap {
	m := make(map[string]string, len(bySymbol))
	for symbol, sector := range bySymbol {
		m[symbol] = sector
	}
	return &SectorMap{bySymbol: m}
}

// DefaultSectors returns a copy of the built-in classification table.
func DefaultSectors() map[string]string {
	return map[string]string{
		"AAPL":  "Technology",
		"MSFT":  "Technology",
		"GOOGL": "Technology",
		"TSLA":  "Automotive",
		"JPM":   "Finance",
		"BAC":   "Finance",
	}
}

// DefaultSectorMap returns the built-in classification table.
func DefaultSectorMap() *SectorMap {
	return NewSectorMap(DefaultSectors())
}

// Sector returns the sector for a symbol, never absent.
func (s *SectorMap) Sector(symbol string) string {
	if sector, ok := s.bySymbol[symbol]; ok {
		return sector
	}
	return SectorOther
}
