package urlresolve

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/docsearch/internal/models"
)

// configFile is the on-disk shape of the per-library UrlConfig registry.
type configFile struct {
	Configs []models.UrlConfig `toml:"configs"`
}

// LoadConfigs reads the per-library UrlConfig set from a TOML file.
func LoadConfigs(path string) ([]models.UrlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("urlresolve: read config %s: %w", path, err)
	}
	var cf configFile
	if err := toml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("urlresolve: parse config %s: %w", path, err)
	}
	return cf.Configs, nil
}
