package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ParseErrorKind separates "not JSON at all" from "JSON of the wrong shape".
type ParseErrorKind int

const (
	MalformedJSON ParseErrorKind = iota + 1
	SchemaMismatch
)

func (k ParseErrorKind) String() string {
	switch k {
	case MalformedJSON:
		return "malformed_json"
	case SchemaMismatch:
		return "schema_mismatch"
	default:
		return "unknown"
	}
}

// ParseError is returned by Parse. Key names the offending collection for
// schema mismatches and is empty when the whole document is at fault.
type ParseError struct {
	Kind ParseErrorKind
	Key  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := "layout: " + e.Kind.String()
	if e.Key != "" {
		msg += " at " + e.Key
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsKind reports whether err is a *ParseError of the given kind.
func IsKind(err error, kind ParseErrorKind) bool {
	var pErr *ParseError
	return errors.As(err, &pErr) && pErr.Kind == kind
}

// Parser decodes layouts and logs rejected documents.
type Parser struct {
	log *zap.Logger
}

func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{log: logger}
}

var defaultParser = NewParser(nil)

// Parse decodes raw with a silent parser.
func Parse(raw string) (*CityLayout, error) {
	return defaultParser.Parse(raw)
}

// Parse strictly decodes raw into a CityLayout. Either every collection
// decodes or the call fails; no partial layout is returned.
func (p *Parser) Parse(raw string) (*CityLayout, error) {
	out, err := decode([]byte(raw))
	if err != nil {
		var pErr *ParseError
		if errors.As(err, &pErr) {
			p.log.Warn("layout rejected",
				zap.String("kind", pErr.Kind.String()),
				zap.String("key", pErr.Key),
				zap.Int("bytes", len(raw)),
				zap.Error(pErr.Err))
		}
		return nil, err
	}
	return out, nil
}

func decode(data []byte) (*CityLayout, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &ParseError{Kind: MalformedJSON, Err: err}
	}
	top, ok := probe.(map[string]any)
	if !ok {
		return nil, &ParseError{Kind: SchemaMismatch, Err: fmt.Errorf("top-level value is %s, want object", jsonKind(probe))}
	}
	for _, key := range RequiredKeys {
		v, present := top[key]
		if !present || v == nil {
			return nil, &ParseError{Kind: SchemaMismatch, Key: key, Err: errors.New("required collection is missing")}
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &ParseError{Kind: SchemaMismatch, Err: err}
	}
	var out CityLayout
	targets := []struct {
		key string
		dst any
	}{
		{KeyResidential, &out.ResidentialAreas},
		{KeyCommercial, &out.CommercialAreas},
		{KeyIndustrial, &out.IndustrialAreas},
		{KeyGreenSpaces, &out.GreenSpaces},
		{KeyInfrastructure, &out.InfrastructureItems},
	}
	for _, t := range targets {
		if err := decodeCollection(fields[t.key], t.dst); err != nil {
			return nil, &ParseError{Kind: SchemaMismatch, Key: t.key, Err: err}
		}
	}
	out.normalize()
	return &out, nil
}

// normalize maps empty arrays to nil so decoded and hand-built layouts compare equal.
func (l *CityLayout) normalize() {
	if len(l.ResidentialAreas) == 0 {
		l.ResidentialAreas = nil
	}
	if len(l.CommercialAreas) == 0 {
		l.CommercialAreas = nil
	}
	if len(l.IndustrialAreas) == 0 {
		l.IndustrialAreas = nil
	}
	if len(l.GreenSpaces) == 0 {
		l.GreenSpaces = nil
	}
	if len(l.InfrastructureItems) == 0 {
		l.InfrastructureItems = nil
	}
}

func decodeCollection(raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return errors.New("expected an array")
	}
	return json.Unmarshal(trimmed, dst)
}

func jsonKind(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "object"
	}
}
