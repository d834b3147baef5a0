package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// SceneFile is the on-disk JSON description of a scene.
// Vectors are JSON arrays read with core.Vec3FromSlice, so [1] means (1,0,0).
type SceneFile struct {
	Name    string            `json:"name"`
	Width   int               `json:"width"`
	Height  int               `json:"height"`
	Camera  *CameraStatement  `json:"camera,omitempty"`
	Spheres []SphereStatement `json:"spheres"`
}

// CameraStatement describes the viewport; omitted vectors keep the default viewport
type CameraStatement struct {
	Origin          []float64 `json:"origin,omitempty"`
	LowerLeftCorner []float64 `json:"lowerLeftCorner,omitempty"`
	Horizontal      []float64 `json:"horizontal,omitempty"`
	Vertical        []float64 `json:"vertical,omitempty"`
}

// SphereStatement describes one sphere
type SphereStatement struct {
	Center []float64 `json:"center"`
	Radius float64   `json:"radius"`
}

// CenterVec returns the sphere center as a vector
func (s SphereStatement) CenterVec() core.Vec3 {
	return core.Vec3FromSlice(s.Center)
}

// ParseSceneFile decodes a JSON scene description from an io.Reader
func ParseSceneFile(reader io.Reader) (*SceneFile, error) {
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()

	var sceneFile SceneFile
	if err := decoder.Decode(&sceneFile); err != nil {
		return nil, fmt.Errorf("failed to decode scene file: %w", err)
	}
	return &sceneFile, nil
}

// LoadSceneFile loads a JSON scene description from disk
func LoadSceneFile(filename string) (*SceneFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sceneFile, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sceneFile, nil
}
