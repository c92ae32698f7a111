package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is the top-level YAML structure of a seed file. References between
// records use codes (names for roles), never ids.
type Seed struct {
	Clients     []ClientSeed     `yaml:"clients"`
	CostCenters []CostCenterSeed `yaml:"cost_centers"`
	Projects    []ProjectSeed    `yaml:"projects"`
	Rates       []RateSeed       `yaml:"rates"`
	Roles       []RoleSeed       `yaml:"roles"`
	Users       []UserSeed       `yaml:"users"`
}

type ClientSeed struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Email  string `yaml:"email,omitempty"`
	Status string `yaml:"status,omitempty"`
}

type CostCenterSeed struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Parent      string `yaml:"parent,omitempty"`
	Status      string `yaml:"status,omitempty"`
}

type ProjectSeed struct {
	Code       string `yaml:"code"`
	Name       string `yaml:"name"`
	Client     string `yaml:"client"`
	CostCenter string `yaml:"cost_center,omitempty"`
	Status     string `yaml:"status,omitempty"`
	StartDate  string `yaml:"start_date,omitempty"`
	EndDate    string `yaml:"end_date,omitempty"`
	Budget     string `yaml:"budget,omitempty"`
}

type RateSeed struct {
	Name      string `yaml:"name"`
	Amount    string `yaml:"amount"`
	Currency  string `yaml:"currency,omitempty"`
	Unit      string `yaml:"unit,omitempty"`
	Project   string `yaml:"project,omitempty"`
	ValidFrom string `yaml:"valid_from"`
	ValidTo   string `yaml:"valid_to,omitempty"`
	Status    string `yaml:"status,omitempty"`
}

type RoleSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

type UserSeed struct {
	Email    string   `yaml:"email"`
	FullName string   `yaml:"full_name"`
	Title    string   `yaml:"title,omitempty"`
	Status   string   `yaml:"status,omitempty"`
	Roles    []string `yaml:"roles,omitempty"`
}

// LoadSeed reads and parses a seed file. Unknown keys are rejected.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var seed Seed
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &seed, nil
}
