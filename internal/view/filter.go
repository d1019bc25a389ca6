package view

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/g1c/g1c/internal/models"
)

// FilterSpec is a compiled predicate over instance attributes. Expressions
// are either `field=value` (fields: name, status, zone, type, ip) or bare
// text matched across all of those fields. A value wrapped in slashes
// (`/.../`) compiles as a case-insensitive regex, anything else matches as
// a case-insensitive substring.
type FilterSpec struct {
	raw    string
	field  string
	re     *regexp.Regexp
	substr string
}

var filterFields = map[string]bool{
	"name":   true,
	"status": true,
	"zone":   true,
	"type":   true,
	"ip":     true,
}

// CompileFilter parses expr into a FilterSpec. An empty expression returns
// a nil spec, which matches everything.
func CompileFilter(expr string) (*FilterSpec, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	spec := &FilterSpec{raw: expr}
	value := expr
	if field, v, ok := strings.Cut(expr, "="); ok {
		field = strings.TrimSpace(strings.ToLower(field))
		if !filterFields[field] {
			return nil, fmt.Errorf("unknown filter field %q (want name, status, zone, type or ip)", field)
		}
		spec.field = field
		value = strings.TrimSpace(v)
	}

	if len(value) >= 2 && strings.HasPrefix(value, "/") && strings.HasSuffix(value, "/") {
		re, err := regexp.Compile("(?i)" + value[1:len(value)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid filter regex: %w", err)
		}
		spec.re = re
	} else {
		spec.substr = strings.ToLower(value)
	}
	return spec, nil
}

// String returns the original expression.
func (f *FilterSpec) String() string {
	if f == nil {
		return ""
	}
	return f.raw
}

// Match reports whether inst passes the filter. A nil spec matches all.
func (f *FilterSpec) Match(inst models.Instance) bool {
	if f == nil {
		return true
	}
	if f.field != "" {
		return f.matchValue(fieldValue(inst, f.field))
	}
	for field := range filterFields {
		if f.matchValue(fieldValue(inst, field)) {
			return true
		}
	}
	return false
}

func (f *FilterSpec) matchValue(v string) bool {
	if f.re != nil {
		return f.re.MatchString(v)
	}
	return strings.Contains(strings.ToLower(v), f.substr)
}

func fieldValue(inst models.Instance, field string) string {
	switch field {
	case "name":
		return inst.Name
	case "status":
		return string(inst.Status)
	case "zone":
		return inst.Zone
	case "type":
		return inst.MachineType
	case "ip":
		return inst.InternalIP + " " + inst.ExternalIP
	}
	return ""
}

// SearchSpec matches instances for highlighting, never for hiding rows.
type SearchSpec struct {
	query string
}

// CompileSearch builds a search spec; empty queries return nil.
func CompileSearch(query string) *SearchSpec {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return &SearchSpec{query: strings.ToLower(query)}
}

// Match reports whether inst matches the search query.
func (s *SearchSpec) Match(inst models.Instance) bool {
	if s == nil {
		return false
	}
	for field := range filterFields {
		if strings.Contains(strings.ToLower(fieldValue(inst, field)), s.query) {
			return true
		}
	}
	return false
}
