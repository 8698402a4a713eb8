// Package yaml loads site profiles from YAML files.
package yaml

import (
	"fmt"
	"os"

	"github.com/fwojciec/catalog"
	"gopkg.in/yaml.v3"
)

// LoadSite reads a site profile from path. Fields left out of the file take
// their defaults. A non-empty baseURL overrides base_url from the file.
func LoadSite(path, baseURL string) (*catalog.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site file: %w", err)
	}

	var site catalog.Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, catalog.Errorf(catalog.EINVALID, "failed to parse site file: %v", err)
	}

	if baseURL != "" {
		site.BaseURL = baseURL
	}
	site.SetDefaults()
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}
