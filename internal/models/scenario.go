package models

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v2"
)

//go:embed scenarios.yaml
var scenariosYAML []byte

// Scenario is a static role-play template. The table is fixed at build
// time; there is no CRUD surface for scenarios.
type Scenario struct {
	ID            string `yaml:"id" json:"id"`
	Title         string `yaml:"title" json:"title"`
	Description   string `yaml:"description" json:"description"`
	Difficulty    string `yaml:"difficulty" json:"difficulty"`
	EstimatedTime int    `yaml:"estimated_time" json:"estimated_time"`
	SystemPrompt  string `yaml:"system_prompt" json:"-"`
}

// ExamPart is one of the three fixed stages of the simulated speaking
// exam. Fallback is the canned examiner line used when the model call
// fails.
type ExamPart struct {
	Part     int    `yaml:"part"`
	Prompt   string `yaml:"prompt"`
	Fallback string `yaml:"fallback"`
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
	ExamParts []ExamPart `yaml:"exam_parts"`
}

var (
	scenarios []Scenario
	examParts map[int]ExamPart
)

func init() {
	var file scenarioFile
	if err := yaml.Unmarshal(scenariosYAML, &file); err != nil {
		panic(fmt.Sprintf("models: invalid embedded scenarios.yaml: %v", err))
	}
	scenarios = file.Scenarios
	examParts = make(map[int]ExamPart, len(file.ExamParts))
	for _, p := range file.ExamParts {
		examParts[p.Part] = p
	}
	for part := 1; part <= 3; part++ {
		if _, ok := examParts[part]; !ok {
			panic(fmt.Sprintf("models: embedded scenarios.yaml missing exam part %d", part))
		}
	}
}

// Scenarios returns the static scenario table.
func Scenarios() []Scenario {
	return scenarios
}

// ScenarioByID looks up a scenario, second result false if unknown.
func ScenarioByID(id string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

// ExamPartByNumber returns the exam part template for part, clamping
// part into [1,3].
func ExamPartByNumber(part int) ExamPart {
	if part < 1 {
		part = 1
	}
	if part > 3 {
		part = 3
	}
	return examParts[part]
}
