package wind

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Faultbox/windtool/pkg/speedtree"
)

// ErrDuplicateName reports two objects sharing a name; joint names must
// be unique within an asset.
var ErrDuplicateName = errors.New("duplicate object name")

// Options controls group assignment and the per-group influence defaults.
type Options struct {
	GroundCover     bool
	GustAttenuation float64

	// Trunk group influence.
	TrunkInfluence float64

	// Branch group g (g >= 1) gets MinInfluence = MinInfluenceBase +
	// (g-1)*MinInfluenceStep, MaxInfluence = min(1, MinInfluence +
	// InfluenceSpan) and ShiftTop = max(0, ShiftTopBase - (g-1)*ShiftTopStep).
	MinInfluenceBase float64
	MinInfluenceStep float64
	InfluenceSpan    float64
	ShiftTopBase     float64
	ShiftTopStep     float64
}

// DefaultOptions returns the standard influence defaults.
func DefaultOptions() Options {
	return Options{
		GroundCover:      false,
		GustAttenuation:  0.25,
		TrunkInfluence:   1.0,
		MinInfluenceBase: 0.2,
		MinInfluenceStep: 0.2,
		InfluenceSpan:    0.4,
		ShiftTopBase:     0.3,
		ShiftTopStep:     0.1,
	}
}

// trunkGroup builds the single-influence group 0.
func (o Options) trunkGroup() SimulationGroup {
	influence := o.TrunkInfluence
	return SimulationGroup{
		UseDualInfluence: false,
		Influence:        &influence,
		TrunkGroup:       true,
	}
}

// branchGroup builds the dual-influence defaults for group index g.
func (o Options) branchGroup(g int) SimulationGroup {
	minInf := round2(o.MinInfluenceBase + float64(g-1)*o.MinInfluenceStep)
	maxInf := round2(math.Min(1.0, minInf+o.InfluenceSpan))
	shift := round2(math.Max(0.0, o.ShiftTopBase-float64(g-1)*o.ShiftTopStep))
	return SimulationGroup{
		UseDualInfluence: true,
		MinInfluence:     &minInf,
		MaxInfluence:     &maxInf,
		ShiftTop:         &shift,
		TrunkGroup:       false,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Build walks the export in document order and produces the wind
// hierarchy document. Objects without a wind-level token land in the
// trunk group (index 0); each distinct wind level gets the next group
// index in first-seen order. Objects carrying vertex bone data
// contribute Bone_<id> joint pairs, with a bone shared across levels
// resolved to the lowest level it appears in; boneless objects
// contribute a joint pair derived from the object name.
func Build(exp *speedtree.Export, opts Options) (*Document, error) {
	names := make(map[string]bool, len(exp.Objects))
	for i := range exp.Objects {
		if names[exp.Objects[i].Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, exp.Objects[i].Name)
		}
		names[exp.Objects[i].Name] = true
	}

	// Group indices by first-seen wind level. Group 0 is the trunk.
	groupOf := map[int]int{}
	for i := range exp.Objects {
		obj := &exp.Objects[i]
		if obj.Wind {
			if _, ok := groupOf[obj.Level]; !ok {
				groupOf[obj.Level] = len(groupOf) + 1
			}
		}
	}

	boneGroup := resolveBones(exp, groupOf)

	doc := &Document{
		GroundCover:     opts.GroundCover,
		GustAttenuation: opts.GustAttenuation,
	}

	doc.Joints = append(doc.Joints, Joint{JointName: "Root", SimulationGroupIndex: 0})

	for i := range exp.Objects {
		obj := &exp.Objects[i]
		if obj.Wind && obj.HasBones() {
			continue // represented by its bone joints below
		}
		group := 0
		if obj.Wind {
			group = groupOf[obj.Level]
		}
		doc.Joints = append(doc.Joints,
			Joint{JointName: obj.Name + "_Start", SimulationGroupIndex: group},
			Joint{JointName: obj.Name + "_End", SimulationGroupIndex: group},
		)
	}

	boneIDs := make([]int, 0, len(boneGroup))
	for id := range boneGroup {
		boneIDs = append(boneIDs, id)
	}
	sort.Ints(boneIDs)
	for _, id := range boneIDs {
		doc.Joints = append(doc.Joints,
			Joint{JointName: fmt.Sprintf("Bone_%d_Start", id), SimulationGroupIndex: boneGroup[id]},
			Joint{JointName: fmt.Sprintf("Bone_%d_End", id), SimulationGroupIndex: boneGroup[id]},
		)
	}

	doc.SimulationGroups = append(doc.SimulationGroups, opts.trunkGroup())
	for g := 1; g <= len(groupOf); g++ {
		doc.SimulationGroups = append(doc.SimulationGroups, opts.branchGroup(g))
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// resolveBones maps each bone ID referenced by a wind object to its
// simulation group. A bone appearing at several levels is assigned to
// the lowest level, the one closest to the trunk.
func resolveBones(exp *speedtree.Export, groupOf map[int]int) map[int]int {
	boneLevel := map[int]int{}
	for i := range exp.Objects {
		obj := &exp.Objects[i]
		if !obj.Wind || !obj.HasBones() {
			continue
		}
		for id := range obj.BoneWeights {
			if level, ok := boneLevel[id]; !ok || obj.Level < level {
				boneLevel[id] = obj.Level
			}
		}
	}

	boneGroup := make(map[int]int, len(boneLevel))
	for id, level := range boneLevel {
		boneGroup[id] = groupOf[level]
	}
	return boneGroup
}
