// Package wind builds wind-simulation bone group descriptions from
// SpeedTree hierarchy exports.
package wind

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Document validation errors.
var (
	ErrNoGroups          = errors.New("document has no simulation groups")
	ErrInvalidGroupIndex = errors.New("joint references an invalid simulation group")
	ErrMultipleTrunks    = errors.New("more than one trunk group")
	ErrBadInfluence      = errors.New("simulation group has inconsistent influence fields")
)

// Joint binds a skeleton joint to a simulation group.
type Joint struct {
	JointName            string `json:"JointName"`
	SimulationGroupIndex int    `json:"SimulationGroupIndex"`
}

// SimulationGroup holds the per-group wind influence parameters.
// Influence is set on single-influence groups; MinInfluence, MaxInfluence
// and ShiftTop on dual-influence groups. Pointers keep absent fields out
// of the serialized document.
type SimulationGroup struct {
	UseDualInfluence bool     `json:"bUseDualInfluence"`
	Influence        *float64 `json:"Influence,omitempty"`
	MinInfluence     *float64 `json:"MinInfluence,omitempty"`
	MaxInfluence     *float64 `json:"MaxInfluence,omitempty"`
	ShiftTop         *float64 `json:"ShiftTop,omitempty"`
	TrunkGroup       bool     `json:"bIsTrunkGroup"`
}

// Document is the wind hierarchy description consumed by the asset importer.
type Document struct {
	Joints           []Joint           `json:"Joints"`
	SimulationGroups []SimulationGroup `json:"SimulationGroups"`
	GroundCover      bool              `json:"bIsGroundCover"`
	GustAttenuation  float64           `json:"GustAttenuation"`
}

// Validate checks the document invariants: every joint references an
// existing group, at most one group is the trunk group, and each group
// carries the influence fields matching its dual-influence flag.
func (d *Document) Validate() error {
	if len(d.SimulationGroups) == 0 {
		return ErrNoGroups
	}

	for _, j := range d.Joints {
		if j.SimulationGroupIndex < 0 || j.SimulationGroupIndex >= len(d.SimulationGroups) {
			return fmt.Errorf("%w: %s -> %d", ErrInvalidGroupIndex, j.JointName, j.SimulationGroupIndex)
		}
	}

	trunks := 0
	for i, g := range d.SimulationGroups {
		if g.TrunkGroup {
			trunks++
		}
		if g.UseDualInfluence {
			if g.MinInfluence == nil || g.MaxInfluence == nil || g.ShiftTop == nil {
				return fmt.Errorf("%w: group %d missing dual-influence fields", ErrBadInfluence, i)
			}
			if *g.MinInfluence > *g.MaxInfluence {
				return fmt.Errorf("%w: group %d min %.2f > max %.2f", ErrBadInfluence, i, *g.MinInfluence, *g.MaxInfluence)
			}
		} else if g.Influence == nil {
			return fmt.Errorf("%w: group %d missing influence", ErrBadInfluence, i)
		}
	}
	if trunks > 1 {
		return ErrMultipleTrunks
	}

	return nil
}

// Marshal serializes the document as indented JSON.
func (d *Document) Marshal() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(d, "", "  ")
}

// WriteFile validates, serializes and writes the document. The output
// path is not touched when validation or serialization fails.
func (d *Document) WriteFile(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
