// Package speedtree parses SpeedTree XML hierarchy exports.
package speedtree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SpeedTree export errors.
var (
	ErrMalformedXML   = errors.New("malformed SpeedTree XML")
	ErrMissingObjects = errors.New("export has no Objects element")
)

// levelToken matches the wind-level designation embedded in object names,
// e.g. "Branch_L2_small" carries level 2.
var levelToken = regexp.MustCompile(`_L(\d+)`)

// Object is a single named node from the export, in document order.
type Object struct {
	Name  string
	Level int  // wind level from the name token, 0 when absent
	Wind  bool // true when the name carries a wind-level token

	// BoneWeights counts how many vertices reference each bone ID.
	// Empty when the object carries no mesh data.
	BoneWeights map[int]int
}

// HasBones returns true when the object carries vertex bone data.
func (o *Object) HasBones() bool {
	return len(o.BoneWeights) > 0
}

// Export is a parsed SpeedTree XML export.
type Export struct {
	Objects []Object
}

// Levels returns the distinct wind levels present, ascending.
func (e *Export) Levels() []int {
	seen := make(map[int]bool)
	for i := range e.Objects {
		if e.Objects[i].Wind {
			seen[e.Objects[i].Level] = true
		}
	}
	levels := make([]int, 0, len(seen))
	for lvl := range seen {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	return levels
}

// ExtractLevel parses the wind-level token from an object name.
// Returns (0, false) when the name carries no token.
func ExtractLevel(name string) (int, bool) {
	m := levelToken.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	level, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return level, true
}

// Wire representation of the export file.
type xmlExport struct {
	XMLName xml.Name
	Objects *xmlObjects `xml:"Objects"`
}

type xmlObjects struct {
	Objects []xmlObject `xml:"Object"`
}

type xmlObject struct {
	Name     string       `xml:"Name,attr"`
	Vertices *xmlVertices `xml:"Vertices"`
}

type xmlVertices struct {
	BoneID string `xml:"BoneID"`
}

// Parse parses SpeedTree export data from a byte slice.
func Parse(data []byte) (*Export, error) {
	var raw xmlExport
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}
	if raw.Objects == nil {
		return nil, ErrMissingObjects
	}

	exp := &Export{Objects: make([]Object, 0, len(raw.Objects.Objects))}
	for _, obj := range raw.Objects.Objects {
		level, wind := ExtractLevel(obj.Name)
		o := Object{
			Name:  obj.Name,
			Level: level,
			Wind:  wind,
		}
		if obj.Vertices != nil {
			o.BoneWeights = parseBoneWeights(obj.Vertices.BoneID)
		}
		exp.Objects = append(exp.Objects, o)
	}
	return exp, nil
}

// Open reads and parses a SpeedTree export file.
func Open(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	exp, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return exp, nil
}

// parseBoneWeights counts bone-ID occurrences in the whitespace-separated
// vertex stream. Negative IDs mark unused influence slots and are skipped,
// as are tokens that fail to parse.
func parseBoneWeights(stream string) map[int]int {
	fields := strings.Fields(stream)
	if len(fields) == 0 {
		return nil
	}
	weights := make(map[int]int)
	for _, field := range fields {
		id, err := strconv.Atoi(field)
		if err != nil || id < 0 {
			continue
		}
		weights[id]++
	}
	if len(weights) == 0 {
		return nil
	}
	return weights
}
