// Package automation runs scripted motion scenarios against a drivetrain.
package automation

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/diffdrive/internal/geom"
)

var ErrUnknownAction = errors.New("automation: unknown action")

// Scenario is a scripted sequence of movement commands.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Profile names a preset used when no --config is given.
	Profile string     `yaml:"profile"`
	Start   *geom.Pose `yaml:"start"`
	// StepTimeout bounds each blocking step; zero waits forever.
	StepTimeout time.Duration `yaml:"step_timeout"`
	Steps       []Step        `yaml:"steps"`
}

// Step is one command. Action selects which fields apply.
type Step struct {
	Action   string         `yaml:"action"`
	Distance float64        `yaml:"distance"`
	Heading  float64        `yaml:"heading"`
	Point    geom.Vector2   `yaml:"point"`
	Path     []geom.Vector2 `yaml:"path"`
	Duration time.Duration  `yaml:"duration"`
	Param    string         `yaml:"param"`
	Value    float64        `yaml:"value"`
	// Blocking defaults to true.
	Blocking *bool `yaml:"blocking"`
}

func (s Step) blocking() bool { return s.Blocking == nil || *s.Blocking }

func (s Step) String() string {
	switch s.Action {
	case "drive":
		return fmt.Sprintf("drive %.2f", s.Distance)
	case "turn_to":
		return fmt.Sprintf("turn_to %.2f°", s.Heading)
	case "turn_to_point", "move_to":
		return fmt.Sprintf("%s %s", s.Action, s.Point)
	case "follow_path":
		return fmt.Sprintf("follow_path (%d waypoints)", len(s.Path))
	case "wait":
		return fmt.Sprintf("wait %s", s.Duration)
	case "set":
		return fmt.Sprintf("set %s=%g", s.Param, s.Value)
	}
	return s.Action
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	for i, step := range sc.Steps {
		if _, ok := actions[step.Action]; !ok {
			return nil, fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, step.Action)
		}
	}
	return &sc, nil
}
