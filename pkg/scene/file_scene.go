package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/loaders"
)

// NewFileScene creates a scene from a JSON scene file
func NewFileScene(path string) (*Scene, error) {
	sceneFile, err := loaders.LoadSceneFile(path)
	if err != nil {
		return nil, err
	}

	name := sceneFile.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return FromSceneFile(name, sceneFile)
}

// FromSceneFile converts a parsed scene file, validating it on the way
func FromSceneFile(name string, sceneFile *loaders.SceneFile) (*Scene, error) {
	width, height := sceneFile.Width, sceneFile.Height
	if width == 0 && height == 0 {
		width, height = defaultWidth, defaultHeight
	}

	s := NewScene(name, width, height)
	if cam := sceneFile.Camera; cam != nil {
		s.Camera.Origin = vecOrDefault(cam.Origin, s.Camera.Origin)
		s.Camera.LowerLeftCorner = vecOrDefault(cam.LowerLeftCorner, s.Camera.LowerLeftCorner)
		s.Camera.Horizontal = vecOrDefault(cam.Horizontal, s.Camera.Horizontal)
		s.Camera.Vertical = vecOrDefault(cam.Vertical, s.Camera.Vertical)
	}

	for _, sphere := range sceneFile.Spheres {
		if err := s.AddSphere(sphere.CenterVec(), sphere.Radius); err != nil {
			return nil, err
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	return s, nil
}

func vecOrDefault(values []float64, fallback core.Vec3) core.Vec3 {
	if values == nil {
		return fallback
	}
	return core.Vec3FromSlice(values)
}
