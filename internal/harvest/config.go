package harvest

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadRegistry reads the static source-tree registry from a TOML file.
func LoadRegistry(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Registry{}, fmt.Errorf("harvest: read sources registry %s: %w", path, err)
	}
	var reg Registry
	if err := toml.Unmarshal(data, &reg); err != nil {
		return Registry{}, fmt.Errorf("harvest: parse sources registry %s: %w", path, err)
	}
	return reg, nil
}
