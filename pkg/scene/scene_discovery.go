package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to scene file (file type only)
}

var builtinScenes = map[string]func() *Scene{
	"default": NewDefaultScene,
	"sky":     NewSkyScene,
	"spheres": NewSpheresScene,
}

// List returns the built-in scenes sorted by name
func List() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for name, constructor := range builtinScenes {
		s := constructor()
		scenes = append(scenes, SceneInfo{
			ID:          "builtin:" + name,
			Name:        name,
			Description: s.Description,
			Type:        "builtin",
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes
}

// ListFileScenes returns the JSON scene files found in dir
func ListFileScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return []SceneInfo{}, nil
		}
		return nil, fmt.Errorf("failed to stat scenes directory: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		scenes = append(scenes, SceneInfo{
			ID:       "file:" + name,
			Name:     name,
			Type:     "file",
			FilePath: filePath,
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// New resolves a scene by built-in name or by path to a JSON scene file
func New(nameOrPath string) (*Scene, error) {
	if constructor, ok := builtinScenes[nameOrPath]; ok {
		return constructor(), nil
	}

	if strings.HasSuffix(nameOrPath, ".json") {
		if _, err := os.Stat(nameOrPath); err == nil {
			return NewFileScene(nameOrPath)
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, nameOrPath)
}
