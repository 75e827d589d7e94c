package task

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Task is one task record as produced by an external task-line parser.
// The query evaluator treats it as read-only.
type Task struct {
	ID            string            `yaml:"id"`
	Path          string            `yaml:"path"`
	RawText       string            `yaml:"raw"`
	Text          string            `yaml:"text"`
	State         string            `yaml:"state"`
	Priority      Priority          `yaml:"priority"`
	ScheduledDate *time.Time        `yaml:"scheduled"`
	DeadlineDate  *time.Time        `yaml:"deadline"`
	Completed     bool              `yaml:"completed"`
	Tags          []string          `yaml:"tags"`
	Properties    map[string]string `yaml:"properties"`
}

// FileName returns the last element of the task's path, without directories.
func (t *Task) FileName() string {
	if t.Path == "" {
		return ""
	}
	return filepath.Base(t.Path)
}

// AllTags returns the task's tag list merged with hashtags found in its raw
// text. Tags are returned without the leading '#'.
func (t *Task) AllTags() []string {
	seen := make(map[string]struct{}, len(t.Tags))
	tags := make([]string, 0, len(t.Tags))
	add := func(tag string) {
		tag = strings.TrimPrefix(tag, "#")
		if tag == "" {
			return
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	for _, tag := range t.Tags {
		add(tag)
	}
	for _, field := range strings.Fields(t.RawText) {
		if strings.HasPrefix(field, "#") {
			add(strings.TrimFunc(field, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '/'
			}))
		}
	}
	return tags
}

// Property looks up a key in the task's property bag, case-insensitively.
func (t *Task) Property(key string) (string, bool) {
	if t.Properties == nil {
		return "", false
	}
	if v, ok := t.Properties[key]; ok {
		return v, true
	}
	lower := strings.ToLower(key)
	for k, v := range t.Properties {
		if strings.ToLower(k) == lower {
			return v, true
		}
	}
	return "", false
}

// taskFileData is the YAML structure of a task fixture file.
type taskFileData struct {
	Tasks []*Task `yaml:"tasks"`
}

// LoadFile reads task records from a YAML file.
// The file holds a top-level "tasks" list; see testdata for the shape.
func LoadFile(path string) ([]*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}
	var tf taskFileData
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing task file: %w", err)
	}
	return tf.Tasks, nil
}
