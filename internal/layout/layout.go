// Package layout decodes model-generated city layouts into a fixed schema.
package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Top-level keys every layout document must carry.
const (
	KeyResidential    = "residential_areas"
	KeyCommercial     = "commercial_areas"
	KeyIndustrial     = "industrial_areas"
	KeyGreenSpaces    = "green_spaces"
	KeyInfrastructure = "infrastructure"
)

// RequiredKeys lists the collections in schema order.
var RequiredKeys = []string{KeyResidential, KeyCommercial, KeyIndustrial, KeyGreenSpaces, KeyInfrastructure}

// CityLayout is the structured form of a layout response. A value returned by
// Parse always has every collection decoded; nil slices only appear when the
// model sent an empty array.
type CityLayout struct {
	ResidentialAreas    []Area           `json:"residential_areas"`
	CommercialAreas     []Area           `json:"commercial_areas"`
	IndustrialAreas     []Area           `json:"industrial_areas"`
	GreenSpaces         []Area           `json:"green_spaces"`
	InfrastructureItems []Infrastructure `json:"infrastructure"`
}

// Area is a zoned parcel. Residential entries carry Population, the other
// categories carry Type.
type Area struct {
	Name       FlexString `json:"name"`
	Size       FlexString `json:"size"`
	Population FlexString `json:"population,omitempty"`
	Type       FlexString `json:"type,omitempty"`
}

// Infrastructure describes a network or facility; Coverage is free-form
// ("12 km", "whole district").
type Infrastructure struct {
	Name     FlexString `json:"name"`
	Type     FlexString `json:"type,omitempty"`
	Coverage FlexString `json:"coverage,omitempty"`
}

// FlexString accepts a JSON string or number. Models are inconsistent about
// quoting sizes and population counts.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*f = FlexString(n.String())
		return nil
	}
	return fmt.Errorf("layout: expected string or number, got %s", truncate(string(b), 32))
}

func (f FlexString) String() string { return string(f) }

var reLeadingNumber = regexp.MustCompile(`^\s*((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?|\.\d+)(?:[eE][+-]?\d+)?`)

// LeadingNumber extracts the numeric token at the start of a size descriptor
// such as "12.5 sq km", "1,200 sq km" or "1.5e3 sq km". Signed values are not
// accepted, nor are tokens that continue into a separator the pattern cannot
// place ("12,5", "1.2.3") or values that overflow a float64.
func LeadingNumber(s string) (float64, bool) {
	loc := reLeadingNumber.FindStringIndex(s)
	if loc == nil {
		return 0, false
	}
	if rest := s[loc[1]:]; rest != "" {
		if isDigit(rest[0]) || len(rest) >= 2 && (rest[0] == ',' || rest[0] == '.') && isDigit(rest[1]) {
			return 0, false
		}
	}
	token := strings.ReplaceAll(strings.TrimSpace(s[:loc[1]]), ",", "")
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
