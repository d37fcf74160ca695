package diagram

import (
	"encoding/json"
	"fmt"

	"mapedit/pkg/geometry"
)

// Kind is the closed set of shape kinds. Geometry and export logic switch
// on the enum; the string form appears only at the serialization boundary.
type Kind int

const (
	KindRectangle Kind = iota
	KindRoundedRect
	KindEllipse
	KindDiamond
	KindHexagon
)

// String returns the persisted name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindRoundedRect:
		return "rounded-rectangle"
	case KindEllipse:
		return "ellipse"
	case KindDiamond:
		return "diamond"
	case KindHexagon:
		return "hexagon"
	default:
		return "rectangle"
	}
}

// Next returns the following kind in the enumeration, wrapping back to
// rectangle after hexagon.
func (k Kind) Next() Kind {
	if k >= KindHexagon || k < KindRectangle {
		return KindRectangle
	}
	return k + 1
}

// ParseKind converts a persisted kind name. Unknown names fall back to
// rectangle so a document with a newer kind still loads.
func ParseKind(s string) Kind {
	switch s {
	case "rectangle", "rect":
		return KindRectangle
	case "rounded-rectangle", "rounded":
		return KindRoundedRect
	case "ellipse", "circle":
		return KindEllipse
	case "diamond":
		return KindDiamond
	case "hexagon":
		return KindHexagon
	default:
		return KindRectangle
	}
}

// MarshalJSON emits the string form.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts the string form.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("shape kind: %w", err)
	}
	*k = ParseKind(s)
	return nil
}

// Anchor is one of the four fixed attachment points on a shape's
// bounding box.
type Anchor int

const (
	AnchorTop Anchor = iota
	AnchorRight
	AnchorBottom
	AnchorLeft
)

// String returns the persisted name of the anchor.
func (a Anchor) String() string {
	return a.Side().String()
}

// Side maps the anchor onto the geometry side used for attachment math.
func (a Anchor) Side() geometry.Side {
	switch a {
	case AnchorTop:
		return geometry.SideTop
	case AnchorRight:
		return geometry.SideRight
	case AnchorBottom:
		return geometry.SideBottom
	case AnchorLeft:
		return geometry.SideLeft
	default:
		return geometry.SideTop
	}
}

// ParseAnchor converts a persisted anchor name.
func ParseAnchor(s string) Anchor {
	switch s {
	case "right":
		return AnchorRight
	case "bottom":
		return AnchorBottom
	case "left":
		return AnchorLeft
	default:
		return AnchorTop
	}
}

// MarshalJSON emits the string form.
func (a Anchor) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts the string form.
func (a *Anchor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("anchor: %w", err)
	}
	*a = ParseAnchor(s)
	return nil
}

// Anchors lists all four anchors in drawing order.
func Anchors() []Anchor {
	return []Anchor{AnchorTop, AnchorRight, AnchorBottom, AnchorLeft}
}

// LinePattern is the stroke pattern of a connection.
type LinePattern int

const (
	PatternSolid LinePattern = iota
	PatternDashed
	PatternDotted
)

// String returns the persisted name of the pattern.
func (p LinePattern) String() string {
	switch p {
	case PatternDashed:
		return "dashed"
	case PatternDotted:
		return "dotted"
	default:
		return "solid"
	}
}

// ParseLinePattern converts a persisted pattern name.
func ParseLinePattern(s string) LinePattern {
	switch s {
	case "dashed":
		return PatternDashed
	case "dotted":
		return PatternDotted
	default:
		return PatternSolid
	}
}

// MarshalJSON emits the string form.
func (p LinePattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts the string form.
func (p *LinePattern) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("line pattern: %w", err)
	}
	*p = ParseLinePattern(s)
	return nil
}

// ArrowKind is the arrow-head style at the target end of a connection.
type ArrowKind int

const (
	ArrowNone ArrowKind = iota
	ArrowOpen
	ArrowTriangle
)

// String returns the persisted name of the arrow kind.
func (a ArrowKind) String() string {
	switch a {
	case ArrowOpen:
		return "arrow"
	case ArrowTriangle:
		return "triangle"
	default:
		return "none"
	}
}

// ParseArrowKind converts a persisted arrow name.
func ParseArrowKind(s string) ArrowKind {
	switch s {
	case "arrow":
		return ArrowOpen
	case "triangle":
		return ArrowTriangle
	default:
		return ArrowNone
	}
}

// MarshalJSON emits the string form.
func (a ArrowKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts the string form.
func (a *ArrowKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("arrow kind: %w", err)
	}
	*a = ParseArrowKind(s)
	return nil
}

// Routing selects how a connection is routed between its anchors.
type Routing int

const (
	RoutingDirect Routing = iota
	RoutingOrthogonal
)

// String returns the persisted name of the routing mode.
func (r Routing) String() string {
	if r == RoutingOrthogonal {
		return "orthogonal"
	}
	return "direct"
}

// ParseRouting converts a persisted routing name.
func ParseRouting(s string) Routing {
	if s == "orthogonal" {
		return RoutingOrthogonal
	}
	return RoutingDirect
}

// MarshalJSON emits the string form.
func (r Routing) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts the string form.
func (r *Routing) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("routing: %w", err)
	}
	*r = ParseRouting(s)
	return nil
}
