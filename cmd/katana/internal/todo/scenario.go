package todo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/augmify/katana/pkg/view"
)

// Scenario is a scripted run of the todo app.
//
//	title: Groceries
//	todos:
//	  - {id: milk, title: Buy milk, color: steelblue}
//	steps:
//	  - add: {id: eggs, title: Eggs, color: "#f0c040"}
//	  - toggle: milk
//	  - move: {id: eggs, to: 0}
//	  - select: eggs
//	  - remove: milk
type Scenario struct {
	Title string     `yaml:"title"`
	Todos []TodoSpec `yaml:"todos"`
	Steps []Step     `yaml:"steps"`
}

// TodoSpec is a todo as written in a scenario file.
type TodoSpec struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Color string `yaml:"color,omitempty"`
	Done  bool   `yaml:"done,omitempty"`
}

// MoveSpec is the argument of a move step.
type MoveSpec struct {
	ID string `yaml:"id"`
	To int    `yaml:"to"`
}

// Step is a single scenario operation. Exactly one field is set.
type Step struct {
	Add    *TodoSpec `yaml:"add,omitempty"`
	Remove string    `yaml:"remove,omitempty"`
	Move   *MoveSpec `yaml:"move,omitempty"`
	Toggle string    `yaml:"toggle,omitempty"`
	Select string    `yaml:"select,omitempty"`
}

// LoadScenario reads and validates the scenario file at path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return sc, nil
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	seen := make(map[string]bool, len(sc.Todos))
	for i, spec := range sc.Todos {
		if _, err := spec.todo(); err != nil {
			return fmt.Errorf("todos[%d]: %w", i, err)
		}
		if seen[spec.ID] {
			return fmt.Errorf("todos[%d]: duplicate id %q", i, spec.ID)
		}
		seen[spec.ID] = true
	}
	for i, step := range sc.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

// InitialState returns the store state the scenario starts from.
func (sc *Scenario) InitialState() State {
	s := State{Title: sc.Title}
	for _, spec := range sc.Todos {
		todo, _ := spec.todo()
		s.Todos = append(s.Todos, todo)
	}
	return s
}

func (spec TodoSpec) todo() (Todo, error) {
	if strings.TrimSpace(spec.ID) == "" {
		return Todo{}, fmt.Errorf("todo id is required")
	}
	todo := Todo{ID: spec.ID, Title: spec.Title, Done: spec.Done, Color: view.ColorWhite}
	if spec.Color != "" {
		color, err := view.ParseColor(spec.Color)
		if err != nil {
			return Todo{}, fmt.Errorf("todo %q: %w", spec.ID, err)
		}
		todo.Color = color
	}
	if todo.Title == "" {
		todo.Title = spec.ID
	}
	return todo, nil
}

func (s Step) validate() error {
	set := 0
	if s.Add != nil {
		set++
		if _, err := s.Add.todo(); err != nil {
			return err
		}
	}
	if s.Move != nil {
		set++
		if s.Move.ID == "" {
			return fmt.Errorf("move requires an id")
		}
	}
	for _, id := range []string{s.Remove, s.Toggle, s.Select} {
		if id != "" {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of add, remove, move, toggle or select must be set (got %d)", set)
	}
	return nil
}

func (s Step) String() string {
	switch {
	case s.Add != nil:
		return fmt.Sprintf("add %s", s.Add.ID)
	case s.Remove != "":
		return fmt.Sprintf("remove %s", s.Remove)
	case s.Move != nil:
		return fmt.Sprintf("move %s to %d", s.Move.ID, s.Move.To)
	case s.Toggle != "":
		return fmt.Sprintf("toggle %s", s.Toggle)
	case s.Select != "":
		return fmt.Sprintf("select %s", s.Select)
	default:
		return "empty step"
	}
}
