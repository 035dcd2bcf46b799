package google

import (
	"fmt"
	"strconv"
	"strings"

	"kotsuhi/internal/core"

	"github.com/shopspring/decimal"
)

// parseRecordRows converts a values matrix (as returned by the Sheets API)
// into records. The header row and any row whose cells do not parse are
// skipped; the skipped count excludes the header.
func parseRecordRows(values [][]any) ([]core.Record, int) {
	var out []core.Record
	skipped := 0
	for i, row := range values {
		r, ok := parseRecordRow(toStrings(row))
		if !ok {
			if i != 0 {
				skipped++
			}
			continue
		}
		out = append(out, r)
	}
	return out, skipped
}

// parseRecordRow parses one worksheet row in the fixed column order
// (name, date, route, distance_km, toll_fee, total).
func parseRecordRow(cols []string) (core.Record, bool) {
	if len(cols) < 6 {
		return core.Record{}, false
	}
	date, err := core.ParseDate(cols[1])
	if err != nil {
		return core.Record{}, false
	}
	dist, err := decimal.NewFromString(normalizeNumber(cols[3]))
	if err != nil {
		return core.Record{}, false
	}
	toll, err := decimal.NewFromString(normalizeNumber(cols[4]))
	if err != nil {
		return core.Record{}, false
	}
	total, err := strconv.ParseInt(normalizeNumber(cols[5]), 10, 64)
	if err != nil {
		return core.Record{}, false
	}
	return core.Record{
		Person:     strings.TrimSpace(cols[0]),
		Date:       date,
		Route:      strings.TrimSpace(cols[2]),
		DistanceKm: dist,
		TollFee:    toll,
		Total:      total,
	}, true
}

func recordToRow(r core.Record) []any {
	return []any{
		r.Person,
		r.Date.Format(),
		r.Route,
		r.DistanceKm.String(),
		r.TollFee.String(),
		strconv.FormatInt(r.Total, 10),
	}
}

// sheetRowForPosition maps a zero-based storage position to the zero-based
// worksheet row index, accounting for the header row and for rows the
// record parser would have skipped so that positions line up with
// ListRecords output.
func sheetRowForPosition(values [][]any, pos int) (int, bool) {
	if pos < 0 {
		return 0, false
	}
	seen := 0
	for i, row := range values {
		if _, ok := parseRecordRow(toStrings(row)); !ok {
			continue
		}
		if seen == pos {
			return i, true
		}
		seen++
	}
	return 0, false
}

// parseRateCell parses the config cell, falling back to the default rate on
// anything unparsable. Spreadsheets may render the number with a decimal
// comma depending on locale.
func parseRateCell(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	rate, err := decimal.NewFromString(s)
	if err != nil || rate.IsNegative() {
		return core.DefaultFuelRate
	}
	return rate
}

// normalizeNumber undoes display formatting a spreadsheet may apply to a
// numeric cell: currency marks, a decimal comma ("10,5") or thousands
// separators ("1,500").
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "¥円 ")
	if i := strings.IndexByte(s, ','); i >= 0 && !strings.ContainsRune(s, '.') && len(s)-i-1 <= 2 && strings.Count(s, ",") == 1 {
		return strings.Replace(s, ",", ".", 1)
	}
	return strings.ReplaceAll(s, ",", "")
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
