/*
 * Copyright (C) 2023 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/algoviz/steptrace/pkg/api"
)

// Options are the CLI-level settings.
type Options struct {
	LogLevel string
	Mode     string
	Directed bool
	Speed    int
	Scenario string
	JSON     bool
}

// Scenario is a stored command sequence for one session, typically a
// YAML file. The mode and display toggles in the file override the
// CLI flags.
type Scenario struct {
	Mode     string            `yaml:"mode" json:"mode" mapstructure:"mode"`
	Directed bool              `yaml:"directed" json:"directed" mapstructure:"directed"`
	Display  api.DisplayConfig `yaml:"display" json:"display" mapstructure:"display"`
	Commands []api.Command     `yaml:"commands" json:"commands" mapstructure:"commands"`
}

// LoadScenario reads and decodes a scenario file. Format is inferred
// from the extension (yaml, yml or json).
func LoadScenario(path string) (*Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var sc Scenario
	if err := v.Unmarshal(&sc); err != nil {
		return nil, fmt.Errorf("decoding scenario %s: %w", path, err)
	}
	return &sc, nil
}
