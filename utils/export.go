package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/setanarut/boxstack"
	"github.com/unixpickle/model3d/model3d"
)

// LayerMesh builds a triangle mesh from placed boxes, one closed cuboid
// per box.
func LayerMesh(boxes []boxstack.PlacedBox) *model3d.Mesh {
	mesh := model3d.NewMesh()
	for _, b := range boxes {
		bounds := b.Bounds()
		mesh.AddMesh(model3d.NewMeshRect(
			model3d.XYZ(bounds.Min.X, bounds.Min.Y, bounds.Min.Z),
			model3d.XYZ(bounds.Max.X, bounds.Max.Y, bounds.Max.Z),
		))
	}
	return mesh
}

// ExportSTL writes one STL file per non-empty layer so each can be assigned
// its own filament in a multi-material slicer. Files are named
// <prefix>_layerNN_<rrggbb>.stl. It returns the written paths.
func ExportSTL(s *boxstack.Stack, dir, prefix string) ([]string, error) {
	var paths []string
	for i, boxes := range s.BoxesByLayer() {
		if len(boxes) == 0 {
			continue
		}
		name := fmt.Sprintf("%s_layer%02d_%s.stl", prefix, i,
			strings.TrimPrefix(s.Layers[i].Color.Hex(), "#"))
		p := filepath.Join(dir, name)
		if err := LayerMesh(boxes).SaveGroupedSTL(p); err != nil {
			return paths, fmt.Errorf("write %s: %w", name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
