// Package catalog holds the static assessment configuration: the questions,
// the option->path weight matrix, and each path's reference corpus. The
// catalog is loaded once at startup and never mutated afterwards, so it is
// safe to share across goroutines.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

type Option struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Weights map[string]int `json:"weights"` // path id -> affinity weight
}

type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

type Path struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Practices   string   `json:"practices"`
	CoreBeliefs string   `json:"core_beliefs"`
	Corpus      []string `json:"corpus"` // ordered reference passages
}

// Catalog is the complete assessment configuration. Declaration order of
// Paths doubles as the tie-break priority order for rankings.
type Catalog struct {
	Questions []Question `json:"questions"`
	Paths     []Path     `json:"paths"`

	pathIndex     map[string]int
	questionIndex map[string]int
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	if err := cat.init(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return &cat, nil
}

// New builds a catalog from already-constructed questions and paths.
// Mostly useful for tests and embedded fixtures.
func New(questions []Question, paths []Path) (*Catalog, error) {
	cat := &Catalog{Questions: questions, Paths: paths}
	if err := cat.init(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) init() error {
	if len(c.Questions) == 0 {
		return fmt.Errorf("catalog has no questions")
	}
	if len(c.Paths) == 0 {
		return fmt.Errorf("catalog has no paths")
	}

	c.pathIndex = make(map[string]int, len(c.Paths))
	for i, p := range c.Paths {
		if p.ID == "" {
			return fmt.Errorf("path at position %d has an empty id", i)
		}
		if _, dup := c.pathIndex[p.ID]; dup {
			return fmt.Errorf("duplicate path id %q", p.ID)
		}
		c.pathIndex[p.ID] = i
	}

	c.questionIndex = make(map[string]int, len(c.Questions))
	for i, q := range c.Questions {
		if q.ID == "" {
			return fmt.Errorf("question at position %d has an empty id", i)
		}
		if _, dup := c.questionIndex[q.ID]; dup {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("question %q has no options", q.ID)
		}
		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if opt.ID == "" {
				return fmt.Errorf("question %q has an option with an empty id", q.ID)
			}
			if seen[opt.ID] {
				return fmt.Errorf("question %q has duplicate option id %q", q.ID, opt.ID)
			}
			seen[opt.ID] = true
			for pathID, w := range opt.Weights {
				if _, ok := c.pathIndex[pathID]; !ok {
					return fmt.Errorf("question %q option %q references unknown path %q", q.ID, opt.ID, pathID)
				}
				if w < 0 {
					return fmt.Errorf("question %q option %q has negative weight for path %q", q.ID, opt.ID, pathID)
				}
			}
		}
		c.questionIndex[q.ID] = i
	}
	return nil
}

// Path returns the path with the given id, or nil if unknown.
func (c *Catalog) Path(id string) *Path {
	i, ok := c.pathIndex[id]
	if !ok {
		return nil
	}
	return &c.Paths[i]
}

// Question returns the question with the given id, or nil if unknown.
func (c *Catalog) Question(id string) *Question {
	i, ok := c.questionIndex[id]
	if !ok {
		return nil
	}
	return &c.Questions[i]
}

// Option returns the selected option of a question, or nil if either id
// is unknown.
func (q *Question) Option(id string) *Option {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

// Priority returns the tie-break rank of a path (lower wins). Unknown
// paths sort last.
func (c *Catalog) Priority(pathID string) int {
	if i, ok := c.pathIndex[pathID]; ok {
		return i
	}
	return len(c.Paths)
}

// MaxRawScore returns the theoretical maximum raw score for a path: the
// sum over all questions of the largest weight any option assigns to it.
func (c *Catalog) MaxRawScore(pathID string) int {
	total := 0
	for _, q := range c.Questions {
		best := 0
		for _, opt := range q.Options {
			if w := opt.Weights[pathID]; w > best {
				best = w
			}
		}
		total += best
	}
	return total
}
