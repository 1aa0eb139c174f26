package domain

// Source column names from the AERONET daily-average export. The AOD columns
// are not listed here; they are discovered by pattern (see reshape.go).
const (
	ColSite        = "AERONET_Site"
	ColDateText    = "Date(dd:mm:yyyy)"
	ColDayOfYear   = "Day_of_Year"
	ColLatitude    = "Site_Latitude(Degrees)"
	ColLongitude   = "Site_Longitude(Degrees)"
	ColElevation   = "Site_Elevation(m)"
	ColPrecipWater = "Precipitable_Water(cm)"
	ColAngstromExp = "440-870_Angstrom_Exponent"
)

// Table is a raw wide-format table as read from CSV: a header row and string
// cells. Cells are uninterpreted; parsing happens in the normalizer.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns a column-name → position map for cell lookups.
func (t Table) Index() map[string]int {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		idx[c] = i
	}
	return idx
}

// cell returns the named column's value in row, or "" when the column is
// absent or the row is short.
func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
