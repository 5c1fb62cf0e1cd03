package pipeline

import "github.com/theirongolddev/sdash/internal/model"

// FilterByCountry returns the records for one country (exact match) in a
// fresh slice.
func FilterByCountry(records []model.Record, country string) []model.Record {
	var out []model.Record
	for _, r := range records {
		if r.Country == country {
			out = append(out, r)
		}
	}
	return out
}

// FilterByYears keeps records with from <= year <= to. A zero bound is open.
func FilterByYears(records []model.Record, from, to int) []model.Record {
	if from == 0 && to == 0 {
		out := make([]model.Record, len(records))
		copy(out, records)
		return out
	}
	var out []model.Record
	for _, r := range records {
		if from != 0 && r.Year < from {
			continue
		}
		if to != 0 && r.Year > to {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterBySex keeps records for one sex label (case-sensitive, lower-case in
// loaded data).
func FilterBySex(records []model.Record, sex string) []model.Record {
	var out []model.Record
	for _, r := range records {
		if r.Sex == sex {
			out = append(out, r)
		}
	}
	return out
}
