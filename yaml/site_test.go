package yaml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSite(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSite(t *testing.T) {
	t.Parallel()

	t.Run("reads all fields", func(t *testing.T) {
		t.Parallel()

		path := writeSite(t, `
base_url: https://shop.example.com/
name: Example Shop
category_marker: "Home \\ "
listing_path: /catalog.html
product_link_selector: a.tile
`)

		site, err := yaml.LoadSite(path, "")

		require.NoError(t, err)
		assert.Equal(t, "https://shop.example.com", site.BaseURL)
		assert.Equal(t, "Example Shop", site.Name)
		assert.Equal(t, `Home \ `, site.CategoryMarker)
		assert.Equal(t, "/catalog.html", site.ListingPath)
		assert.Equal(t, "a.tile", site.ProductLinkSelector)
	})

	t.Run("fills defaults", func(t *testing.T) {
		t.Parallel()

		path := writeSite(t, "base_url: https://maxton.design\n")

		site, err := yaml.LoadSite(path, "")

		require.NoError(t, err)
		assert.Equal(t, "maxton-design", site.Name)
		assert.Equal(t, catalog.DefaultListingPath, site.ListingPath)
		assert.Equal(t, catalog.DefaultCategoryMarker, site.CategoryMarker)
		assert.Equal(t, catalog.DefaultProductLinkSelector, site.ProductLinkSelector)
	})

	t.Run("base URL argument overrides file", func(t *testing.T) {
		t.Parallel()

		path := writeSite(t, "base_url: https://maxton.design\nname: Maxton\n")

		site, err := yaml.LoadSite(path, "http://127.0.0.1:8080")

		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:8080", site.BaseURL)
		assert.Equal(t, "Maxton", site.Name)
	})

	t.Run("missing base URL takes the default", func(t *testing.T) {
		t.Parallel()

		path := writeSite(t, "name: Maxton\n")

		site, err := yaml.LoadSite(path, "")

		require.NoError(t, err)
		assert.Equal(t, catalog.DefaultBaseURL, site.BaseURL)
		assert.Equal(t, "Maxton", site.Name)
	})

	t.Run("invalid base URL", func(t *testing.T) {
		t.Parallel()

		path := writeSite(t, "base_url: ftp://maxton.design\n")

		_, err := yaml.LoadSite(path, "")

		assert.Equal(t, catalog.EINVALID, catalog.ErrorCode(err))
	})

	t.Run("malformed YAML", func(t *testing.T) {
		t.Parallel()

		path := writeSite(t, "base_url: [unclosed\n")

		_, err := yaml.LoadSite(path, "")

		assert.Equal(t, catalog.EINVALID, catalog.ErrorCode(err))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadSite(filepath.Join(t.TempDir(), "nope.yaml"), "")

		require.Error(t, err)
	})
}
