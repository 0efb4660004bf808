package navigation

import "strings"

// PathPattern matches routes segment by segment. A segment written as
// {name} matches any single non-empty segment and captures it as name.
type PathPattern struct {
	raw      string
	segments []patternSegment
}

type patternSegment struct {
	literal string
	param   string
}

// NewPathPattern compiles pattern.
func NewPathPattern(pattern string) *PathPattern {
	parts := strings.Split(pattern, "/")
	p := &PathPattern{raw: pattern, segments: make([]patternSegment, len(parts))}
	for i, part := range parts {
		if len(part) > 2 && strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			p.segments[i] = patternSegment{param: part[1 : len(part)-1]}
		} else {
			p.segments[i] = patternSegment{literal: part}
		}
	}
	return p
}

// String returns the pattern source.
func (p *PathPattern) String() string { return p.raw }

// Match reports whether route matches and returns the captured parameters.
func (p *PathPattern) Match(route string) (map[string]string, bool) {
	parts := strings.Split(route, "/")
	if len(parts) != len(p.segments) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range p.segments {
		if seg.param == "" {
			if parts[i] != seg.literal {
				return nil, false
			}
			continue
		}
		if parts[i] == "" {
			return nil, false
		}
		if params == nil {
			params = make(map[string]string)
		}
		params[seg.param] = parts[i]
	}
	return params, true
}

// HasParams reports whether the pattern captures anything.
func (p *PathPattern) HasParams() bool {
	for _, seg := range p.segments {
		if seg.param != "" {
			return true
		}
	}
	return false
}
