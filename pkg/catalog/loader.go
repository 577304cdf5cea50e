package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog layout.
type File struct {
	Categories []string  `json:"categories,omitempty" yaml:"categories,omitempty"`
	Brands     []string  `json:"brands,omitempty" yaml:"brands,omitempty"`
	Products   []Product `json:"products" yaml:"products"`
}

// yamlProduct reads price as its literal text so decimals keep full precision.
type yamlProduct struct {
	Product `yaml:",inline"`
	Price   string `yaml:"price"`
}

type yamlFile struct {
	Categories []string      `yaml:"categories,omitempty"`
	Brands     []string      `yaml:"brands,omitempty"`
	Products   []yamlProduct `yaml:"products"`
}

// LoadFile reads a catalog from a .json, .yaml or .yml file.
func LoadFile(path string) (*StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
		}
	case ".yaml", ".yml":
		f, err = decodeYAML(data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	return NewStaticCatalog(f.Products, f.Categories, f.Brands)
}

func decodeYAML(data []byte) (File, error) {
	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return File{}, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	f := File{Categories: yf.Categories, Brands: yf.Brands}
	for _, yp := range yf.Products {
		p := yp.Product
		if yp.Price != "" {
			d, err := decimal.NewFromString(yp.Price)
			if err != nil {
				return File{}, fmt.Errorf("product %d: invalid price %q: %w", p.ID, yp.Price, err)
			}
			p.Price = d
		}
		f.Products = append(f.Products, p)
	}
	return f, nil
}
