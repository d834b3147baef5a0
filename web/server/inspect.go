package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Direction    [3]float64             `json:"direction"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        [3]int                 `json:"color"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Ray    core.Ray
	Hit    bool
	Record geometry.Intersection
	Normal core.Vec3
	Color  core.Color
}

// inspectPixel casts the ray through output pixel (x, row), row 0 at the top,
// and reports the nearest hit and the colour the shader gives that pixel
func inspectPixel(sceneObj *scene.Scene, shader renderer.Shader, x, row int) (InspectResult, error) {
	rt := renderer.NewSceneRaytracer(sceneObj, shader, renderer.Options{Logger: renderer.NewDiscardLogger()})
	y := sceneObj.Height - 1 - row

	color, err := rt.ShadePixel(x, y, sceneObj)
	if err != nil {
		return InspectResult{}, err
	}

	ray := rt.SampleAt(x, y).Ray
	result := InspectResult{Ray: ray, Color: color}

	hit, isHit := sceneObj.Hit(ray)
	if !isHit {
		return result, nil
	}

	normal, err := hit.Shape.Normal(hit.Point)
	if err != nil {
		return InspectResult{}, err
	}
	result.Hit = true
	result.Record = hit
	result.Normal = normal
	return result, nil
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	default:
		return "unknown", properties
	}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, shader, err := s.setupRender(req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if err := sceneObj.Validate(); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	if pixelX < 0 || pixelX >= sceneObj.Width || pixelY < 0 || pixelY >= sceneObj.Height {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Pixel coordinates out of bounds for %dx%d image", sceneObj.Width, sceneObj.Height))
		return
	}

	result, err := inspectPixel(sceneObj, shader, pixelX, pixelY)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	response := InspectResponse{
		Hit:       result.Hit,
		Direction: vecArray(result.Ray.Direction),
		Color:     [3]int{result.Color.R, result.Color.G, result.Color.B},
	}
	if result.Hit {
		response.GeometryType, response.Properties = extractGeometryInfo(result.Record.Shape)
		response.Point = vecArray(result.Record.Point)
		response.Normal = vecArray(result.Normal)
		response.Distance = result.Record.T
	}

	writeJSON(w, http.StatusOK, response)
}
