// Package geo resolves client IPs to a coarse location for presence records.
// A real GeoIP database is an external collaborator; deployments without one
// use the null locator, which reports the historical "null" placeholders.
package geo

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Location is the presence-record triple.
type Location struct {
	CC      string `yaml:"cc"`
	Country string `yaml:"country"`
	City    string `yaml:"city"`
}

// Locator maps an IP address to a Location.
type Locator interface {
	Locate(ip string) Location
}

// nullLocation matches what clients historically render for unknown origins.
var nullLocation = Location{CC: "null", Country: "null", City: "null"}

type nullLocator struct{}

func (nullLocator) Locate(string) Location { return nullLocation }

// Null returns a locator that knows nothing.
func Null() Locator { return nullLocator{} }

// Static resolves IPs against a fixed prefix table. Longest matching prefix
// wins; miss falls back to the null placeholders.
type Static struct {
	table map[string]Location
}

// NewStatic builds a locator from a prefix table.
func NewStatic(table map[string]Location) *Static {
	return &Static{table: table}
}

// LoadStatic reads a YAML prefix table, e.g.:
//
//	"203.0.113.": {cc: ES, country: Spain, city: Barcelona}
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading geo table %s: %w", path, err)
	}
	table := map[string]Location{}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing geo table %s: %w", path, err)
	}
	return NewStatic(table), nil
}

func (s *Static) Locate(ip string) Location {
	best := ""
	loc := nullLocation
	for prefix, l := range s.table {
		if strings.HasPrefix(ip, prefix) && len(prefix) > len(best) {
			best = prefix
			loc = l
		}
	}
	return loc
}
