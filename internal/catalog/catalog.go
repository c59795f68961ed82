// Package catalog serves the static service-catalog data: the four service
// levels and the managed services available at each. The data ships
// embedded in the binary; there is no persistence or per-tenant state here.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var rawCatalog []byte

// Service is one managed health service.
type Service struct {
	ID              string   `yaml:"id" json:"service_id"`
	Name            string   `yaml:"name" json:"name"`
	Description     string   `yaml:"description" json:"description"`
	Level           string   `yaml:"level" json:"service_level"`
	Features        []string `yaml:"features" json:"features"`
	AutomationRules []string `yaml:"automation_rules" json:"automation_rules"`
}

// Catalog is the parsed service catalog. Levels are ordered from lowest to
// highest; a higher level includes every lower level's services.
type Catalog struct {
	levels   []string
	services []Service
	byID     map[string]Service
}

type catalogFile struct {
	Levels   []string  `yaml:"levels"`
	Services []Service `yaml:"services"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(rawCatalog, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(file.Levels) == 0 {
		return nil, fmt.Errorf("catalog defines no service levels")
	}

	c := &Catalog{
		levels:   file.Levels,
		services: file.Services,
		byID:     make(map[string]Service, len(file.Services)),
	}
	for _, svc := range file.Services {
		if _, ok := c.byID[svc.ID]; ok {
			return nil, fmt.Errorf("duplicate service id %q", svc.ID)
		}
		if c.levelRank(svc.Level) < 0 {
			return nil, fmt.Errorf("service %q has unknown level %q", svc.ID, svc.Level)
		}
		c.byID[svc.ID] = svc
	}
	return c, nil
}

// Levels returns the service levels, lowest first.
func (c *Catalog) Levels() []string {
	return c.levels
}

// All returns every service in catalog order.
func (c *Catalog) All() []Service {
	return c.services
}

// Lookup returns the service with the given id.
func (c *Catalog) Lookup(id string) (Service, bool) {
	svc, ok := c.byID[id]
	return svc, ok
}

// ServicesForLevel returns the services enabled at the given level: those
// of the level itself plus all lower levels.
func (c *Catalog) ServicesForLevel(level string) ([]Service, error) {
	rank := c.levelRank(level)
	if rank < 0 {
		return nil, fmt.Errorf("unknown service level %q", level)
	}

	var enabled []Service
	for _, svc := range c.services {
		if c.levelRank(svc.Level) <= rank {
			enabled = append(enabled, svc)
		}
	}
	return enabled, nil
}

func (c *Catalog) levelRank(level string) int {
	for i, l := range c.levels {
		if l == level {
			return i
		}
	}
	return -1
}
