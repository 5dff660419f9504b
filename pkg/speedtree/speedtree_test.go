package speedtree

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// testObject describes an Object element for fixture building.
type testObject struct {
	name    string
	boneIDs string // raw BoneID text, empty for no Vertices element
}

// buildTestExport creates a minimal SpeedTree export for testing.
func buildTestExport(objects []testObject) []byte {
	var b strings.Builder
	b.WriteString("<SpeedTree>\n  <Objects>\n")
	for _, obj := range objects {
		if obj.boneIDs == "" {
			fmt.Fprintf(&b, "    <Object Name=%q/>\n", obj.name)
			continue
		}
		fmt.Fprintf(&b, "    <Object Name=%q>\n", obj.name)
		fmt.Fprintf(&b, "      <Vertices><BoneID>%s</BoneID></Vertices>\n", obj.boneIDs)
		b.WriteString("    </Object>\n")
	}
	b.WriteString("  </Objects>\n</SpeedTree>\n")
	return []byte(b.String())
}

func TestParse_ValidExport(t *testing.T) {
	data := buildTestExport([]testObject{
		{name: "Trunk"},
		{name: "Branch_L1", boneIDs: "1 1 2"},
		{name: "Leaf_L2_small", boneIDs: "3"},
	})

	exp, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(exp.Objects) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(exp.Objects))
	}

	trunk := exp.Objects[0]
	if trunk.Name != "Trunk" {
		t.Errorf("expected name Trunk, got %s", trunk.Name)
	}
	if trunk.Wind {
		t.Error("expected Trunk to have no wind level")
	}
	if trunk.HasBones() {
		t.Error("expected Trunk to have no bone data")
	}

	branch := exp.Objects[1]
	if !branch.Wind || branch.Level != 1 {
		t.Errorf("expected Branch_L1 at level 1, got wind=%v level=%d", branch.Wind, branch.Level)
	}

	leaf := exp.Objects[2]
	if !leaf.Wind || leaf.Level != 2 {
		t.Errorf("expected Leaf_L2_small at level 2, got wind=%v level=%d", leaf.Wind, leaf.Level)
	}
}

func TestParse_DocumentOrder(t *testing.T) {
	data := buildTestExport([]testObject{
		{name: "Leaf_L3"},
		{name: "Trunk"},
		{name: "Branch_L1"},
	})

	exp, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []string{"Leaf_L3", "Trunk", "Branch_L1"}
	for i, name := range want {
		if exp.Objects[i].Name != name {
			t.Errorf("object %d: expected %s, got %s", i, name, exp.Objects[i].Name)
		}
	}
}

func TestParse_BoneWeights(t *testing.T) {
	data := buildTestExport([]testObject{
		{name: "Branch_L1", boneIDs: "0 1 1 2 -1 -1 junk 2 2"},
	})

	exp, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	weights := exp.Objects[0].BoneWeights
	expected := map[int]int{0: 1, 1: 2, 2: 3}
	if len(weights) != len(expected) {
		t.Fatalf("expected %d bone IDs, got %d", len(expected), len(weights))
	}
	for id, count := range expected {
		if weights[id] != count {
			t.Errorf("bone %d: expected count %d, got %d", id, count, weights[id])
		}
	}
}

func TestParse_MalformedXML(t *testing.T) {
	_, err := Parse([]byte("<SpeedTree><Objects>"))
	if !errors.Is(err, ErrMalformedXML) {
		t.Errorf("expected ErrMalformedXML, got %v", err)
	}
}

func TestParse_MissingObjects(t *testing.T) {
	_, err := Parse([]byte("<SpeedTree></SpeedTree>"))
	if !errors.Is(err, ErrMissingObjects) {
		t.Errorf("expected ErrMissingObjects, got %v", err)
	}
}

func TestExtractLevel(t *testing.T) {
	tests := []struct {
		name  string
		level int
		wind  bool
	}{
		{"Trunk", 0, false},
		{"Branch_L1", 1, true},
		{"Branch_L12_big", 12, true},
		{"Leaf_L2_small", 2, true},
		{"Lamp_Large", 0, false},
		{"Branch_L", 0, false},
		{"_L3", 3, true},
	}

	for _, tc := range tests {
		level, wind := ExtractLevel(tc.name)
		if level != tc.level || wind != tc.wind {
			t.Errorf("%s: expected (%d, %v), got (%d, %v)", tc.name, tc.level, tc.wind, level, wind)
		}
	}
}

func TestLevels(t *testing.T) {
	data := buildTestExport([]testObject{
		{name: "Leaf_L3"},
		{name: "Trunk"},
		{name: "Branch_L1"},
		{name: "Twig_L3"},
	})

	exp, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	levels := exp.Levels()
	if len(levels) != 2 || levels[0] != 1 || levels[1] != 3 {
		t.Errorf("expected levels [1 3], got %v", levels)
	}
}
