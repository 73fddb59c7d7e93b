package scene

import (
	"math"
	"testing"

	"github.com/yt-project/meshray/pkg/core"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name            string
		scene           string
		vertsPerElement int
		expectError     bool
	}{
		{"hexahedron", "hex", 8, false},
		{"tetrahedron", "tet", 4, false},
		{"wedge", "wedge", 6, false},
		{"hex grid", "hexgrid", 8, false},
		{"unknown", "nonexistent", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := ByName(tt.scene)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene %q", tt.scene)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if mesh.VertsPerElement != tt.vertsPerElement {
				t.Errorf("Expected %d vertices per element, got %d", tt.vertsPerElement, mesh.VertsPerElement)
			}
			if len(mesh.Connectivity)%mesh.VertsPerElement != 0 {
				t.Errorf("Connectivity length %d not a multiple of %d", len(mesh.Connectivity), mesh.VertsPerElement)
			}
			if len(mesh.Fields) != len(mesh.Connectivity) {
				t.Errorf("Fields length %d does not match connectivity length %d", len(mesh.Fields), len(mesh.Connectivity))
			}
		})
	}
}

func TestHexahedronGrid(t *testing.T) {
	mesh := HexahedronGrid(2, 3, 4, func(p core.Vec3) float64 { return p.X })

	wantElements := 2 * 3 * 4
	if got := len(mesh.Connectivity) / 8; got != wantElements {
		t.Errorf("Expected %d elements, got %d", wantElements, got)
	}
	if got := len(mesh.Vertices); got != 3*4*5 {
		t.Errorf("Expected %d shared vertices, got %d", 3*4*5, got)
	}

	// Every connectivity index in range, every field matching its
	// vertex position.
	for i, ci := range mesh.Connectivity {
		if ci < 0 || int(ci) >= len(mesh.Vertices) {
			t.Fatalf("Connectivity[%d] = %d out of range", i, ci)
		}
		if math.Abs(mesh.Fields[i]-mesh.Vertices[ci].X) > 1e-12 {
			t.Errorf("Field %d should equal vertex x %f, got %f", i, mesh.Vertices[ci].X, mesh.Fields[i])
		}
	}
}

func TestUnitMeshes_FieldsAreVertexIndices(t *testing.T) {
	for _, mesh := range []Mesh{UnitHexahedron(), UnitTetrahedron(), UnitWedge()} {
		for i, f := range mesh.Fields {
			if f != float64(i) {
				t.Errorf("Expected field %d to be %d, got %f", i, i, f)
			}
		}
	}
}
