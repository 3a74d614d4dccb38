package tables

import (
	"regexp"
	"strings"
)

var (
	priceRe         = regexp.MustCompile(`(\p{Nd}[\p{Nd},]*)`)
	parenthesesRe   = regexp.MustCompile(`\(.*?\)`)
	quotedRe        = regexp.MustCompile(`".*?"`)
	spaceCommaRe    = regexp.MustCompile(`\s+,`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// Rule is one cell cleanup step. Apply runs only when Applies is true.
// Both see the value as it entered the normalizer (original); Apply also
// receives the output of the rules before it (current).
type Rule struct {
	Name    string
	Applies func(header, original string) bool
	Apply   func(header, original, current string) string
}

// Rules are applied to every cell in this order. They are independent:
// any number of them may fire for one cell.
var Rules = []Rule{
	{
		Name:    "vehicle_name",
		Applies: isVehicleHeader,
		Apply: func(_, _, current string) string {
			return CleanVehicleName(current)
		},
	},
	{
		Name: "price",
		Applies: func(_, original string) bool {
			return strings.Contains(strings.ToLower(original), priceMarker)
		},
		Apply: func(_, original, _ string) string {
			return ParsePrice(original)
		},
	},
	{
		Name:    "acquisition_code",
		Applies: func(header, _ string) bool { return isAcquisitionHeader(header) },
		Apply: func(header, _, current string) string {
			return ExpandAcquisition(header, current)
		},
	},
}

// NormalizeCell runs Rules over one cell value.
func NormalizeCell(header, value string) string {
	return normalizeCell(header, value, nil)
}

func normalizeCell(header, value string, stats *Stats) string {
	current := value
	for _, rule := range Rules {
		if !rule.Applies(header, value) {
			continue
		}
		current = rule.Apply(header, value, current)
		if stats != nil {
			stats.RecordRule(rule.Name)
		}
	}
	return current
}

func isVehicleHeader(header, _ string) bool {
	return vehicleHeaders[strings.ToLower(header)]
}

func isAcquisitionHeader(header string) bool {
	h := strings.ToLower(header)
	for _, k := range acquisitionHeaderKeywords {
		if strings.Contains(h, k) {
			return true
		}
	}
	return false
}

// ParsePrice returns the first run of decimal digits (commas allowed
// inside) with the commas removed: "4,000,000 CRLEGENDARY" becomes
// "4000000". Digits of any script count and are kept as written. Values
// without digits are returned unchanged.
func ParsePrice(value string) string {
	m := priceRe.FindString(value)
	if m == "" {
		return value
	}
	return strings.ReplaceAll(m, ",", "")
}

// CleanVehicleName strips annotations from a vehicle name: parenthesized
// and quoted segments, and everything from the first metadata marker on.
func CleanVehicleName(value string) string {
	text := CleanText(value)
	if text == "" {
		return text
	}

	text = parenthesesRe.ReplaceAllString(text, "")
	text = quotedRe.ReplaceAllString(text, "")

	cut := -1
	for _, marker := range MetadataMarkers {
		if idx := indexFold(text, marker); idx != -1 && (cut == -1 || idx < cut) {
			cut = idx
		}
	}
	if cut != -1 {
		text = text[:cut]
	}

	text = strings.ReplaceAll(text, " ,", ",")
	text = spaceCommaRe.ReplaceAllString(text, ",")
	text = whitespaceRunRe.ReplaceAllString(text, " ")
	return strings.Trim(text, " ,")
}

// ExpandAcquisition replaces an acquisition code with its description
// when header names a source/unlock column. Unknown codes and other
// columns are returned unchanged.
func ExpandAcquisition(header, value string) string {
	if !isAcquisitionHeader(header) {
		return value
	}
	if expanded, ok := AcquisitionCodes[strings.ToUpper(strings.TrimSpace(value))]; ok {
		return expanded
	}
	return value
}
