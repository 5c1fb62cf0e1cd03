// Package model defines domain types for sdash records and aggregate views.
package model

import (
	"sort"
	"strconv"
	"strings"
)

// Sex labels as they appear in the cleaned dataset.
const (
	SexFemale = "female"
	SexMale   = "male"
)

// Record is one (country, year, sex, age group) observation row.
// Records are loaded once and never mutated afterwards.
type Record struct {
	Country        string
	Year           int
	Sex            string
	AgeGroup       string
	SuicideCount   int64
	Population     int64
	RatePer100k    float64
	HDIForYear     *float64 // nil when the source row has no HDI
	GDPForYear     float64
	GDPPerCapita   float64
	Generation     string
	IncomeCategory string
}

// HasHDI reports whether the row carries a Human Development Index value.
func (r Record) HasHDI() bool {
	return r.HDIForYear != nil
}

// Key identifies the row's unique (country, year, sex, age group) tuple.
func (r Record) Key() string {
	return r.Country + "|" + strconv.Itoa(r.Year) + "|" + r.Sex + "|" + r.AgeGroup
}

// AgeGroupRank returns the lower bound of an age bucket such as "15-24 years"
// or "75+ years". Labels without a leading number rank after every bucket.
func AgeGroupRank(label string) int {
	s := strings.TrimSpace(label)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 1 << 30
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 1 << 30
	}
	return n
}

// LessAgeGroup orders age buckets youngest first, falling back to label order.
func LessAgeGroup(a, b string) bool {
	ra, rb := AgeGroupRank(a), AgeGroupRank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

// SortAgeGroups sorts labels in place, youngest bucket first.
func SortAgeGroups(labels []string) {
	sort.Slice(labels, func(i, j int) bool { return LessAgeGroup(labels[i], labels[j]) })
}
