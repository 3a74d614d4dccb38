package tables

// DroppedColumn is the header (compared case-insensitively) of the column
// removed from every table. Its values are derived from other columns.
const DroppedColumn = "lowest pi"

// TableIndexField is the synthetic field naming the source table of a record.
const TableIndexField = "_table_index"

// MetadataMarkers are provenance notes that trail vehicle names on the
// source pages. A vehicle name is cut at the first marker it contains.
var MetadataMarkers = []string{
	"autoshow",
	"wheelspin",
	"gifted",
	"barn find",
	"car mastery",
	"car collector",
	"accolade",
	"promotional",
	"car pass",
	"horizon raptors",
	"dlc",
}

// AcquisitionCodes maps the abbreviations used in source/unlock columns
// to their descriptions.
var AcquisitionCodes = map[string]string{
	"AC": "Arcade / Horizon Arcade",
	"BR": "Barn Find Reward",
	"HA": "Horizon Adventure Unlock",
}

// vehicleHeaders are the (lowercase) headers holding vehicle names.
var vehicleHeaders = map[string]bool{
	"vehicle": true,
	"car":     true,
}

// acquisitionHeaderKeywords mark a header as an acquisition column when
// any of them is a substring of the lowercased header.
var acquisitionHeaderKeywords = []string{
	"source",
	"unlock",
	"acquisition",
	"obtained",
}

// priceMarker flags a value as a currency amount ("4,000,000 CR").
const priceMarker = "cr"
