package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitQualified(t *testing.T) {
	tests := []struct {
		in      string
		pkgPath string
		name    string
	}{
		{"datagen/examples/shop.PersonTable", "datagen/examples/shop", "PersonTable"},
		{"github.com/acme/model.Order", "github.com/acme/model", "Order"},
		{"string", "", "string"},
		{"github.com/acme/model", "", "github.com/acme/model"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			pkgPath, name := SplitQualified(tt.in)
			assert.Equal(t, tt.pkgPath, pkgPath)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
	assert.Empty(t, SortedKeys(map[string]int{}))
}

func TestPkgName(t *testing.T) {
	tests := map[string]string{
		"time":                         "time",
		"datagen/examples/shopdata":    "shopdata",
		"gopkg.in/yaml.v3":             "yaml",
		"github.com/go-viper/viper/v2": "viper",
		"github.com/mattn/go-isatty":   "isatty",
		"example.com/my-pkg":           "mypkg",
		"":                             "",
	}

	for in, want := range tests {
		assert.Equal(t, want, PkgName(in), in)
	}
}
