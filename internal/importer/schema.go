package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Roster is the top-level YAML structure for seeding an organization and its
// employee directory.
type Roster struct {
	Organization OrganizationImport `yaml:"organization"`
	Employees    []EmployeeImport   `yaml:"employees"`
}

type OrganizationImport struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Departments []string `yaml:"departments,omitempty"`
}

// EmployeeImport is one roster line. Position defaults to the line's index.
type EmployeeImport struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Department  string `yaml:"department,omitempty"`
	ThreadColor string `yaml:"thread_color,omitempty"`
	Position    *int   `yaml:"position,omitempty"`
}

// LoadRoster reads and parses a roster YAML file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRoster(data)
}

func ParseRoster(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing roster file: %w", err)
	}
	return &r, nil
}
