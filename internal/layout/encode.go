package layout

import (
	"bytes"
	"encoding/json"
)

// Encode renders l as compact JSON without escaping <, > and &.
func Encode(l *CityLayout) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(l); err != nil {
		return nil, err
	}
	// json.Encoder appends a newline
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// EncodeIndent is Encode with two-space indentation, the form embedded in
// improvement prompts.
func EncodeIndent(l *CityLayout) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalJSON always emits every collection as an array so encoded layouts
// parse back even when a category is empty.
func (l CityLayout) MarshalJSON() ([]byte, error) {
	type plain CityLayout
	p := plain(l)
	if p.ResidentialAreas == nil {
		p.ResidentialAreas = []Area{}
	}
	if p.CommercialAreas == nil {
		p.CommercialAreas = []Area{}
	}
	if p.IndustrialAreas == nil {
		p.IndustrialAreas = []Area{}
	}
	if p.GreenSpaces == nil {
		p.GreenSpaces = []Area{}
	}
	if p.InfrastructureItems == nil {
		p.InfrastructureItems = []Infrastructure{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
