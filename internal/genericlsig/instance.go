// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package genericlsig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CurrentSchemaVersion is the parameter file schema version.
const CurrentSchemaVersion = 1

// InstanceSpec is a YAML parameter file naming a template and its creation
// parameters:
//
//	schema_version: 1
//	template: htlc-v1
//	params:
//	  owner: 7ZUECA7HFLZTXENRV24SHLU4AVPUTMTTDUFUBNBD64C73F3UHRTHAIOF6Q
//	  expiry_round: 600000
type InstanceSpec struct {
	SchemaVersion int               `yaml:"schema_version"`
	Template      string            `yaml:"template"`
	Params        map[string]string `yaml:"params"`
}

// ParseInstanceSpec parses YAML data into an InstanceSpec.
// A missing schema version is treated as the current one.
func ParseInstanceSpec(data []byte) (*InstanceSpec, error) {
	var spec InstanceSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if spec.SchemaVersion == 0 {
		spec.SchemaVersion = CurrentSchemaVersion
	}
	if spec.SchemaVersion != CurrentSchemaVersion {
		return nil, fmt.Errorf("unsupported schema_version %d (expected %d)", spec.SchemaVersion, CurrentSchemaVersion)
	}
	if spec.Template == "" {
		return nil, fmt.Errorf("template is required")
	}
	if spec.Params == nil {
		spec.Params = map[string]string{}
	}
	return &spec, nil
}

// Build constructs the template instance the spec describes.
func (s *InstanceSpec) Build() (Template, error) {
	return New(s.Template, s.Params)
}

// LoadInstanceFile reads a parameter file and builds its template instance.
func LoadInstanceFile(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}
	spec, err := ParseInstanceSpec(data)
	if err != nil {
		return nil, fmt.Errorf("invalid parameter file %s: %w", path, err)
	}
	t, err := spec.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
