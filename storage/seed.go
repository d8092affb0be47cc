package storage

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"prism-board/domain"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Tasks []domain.Task `yaml:"tasks"`
}

// SeedTasks returns the built-in initial tasks.
func SeedTasks() ([]domain.Task, error) {
	return parseSeed(seedYAML)
}

func parseSeed(data []byte) ([]domain.Task, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return f.Tasks, nil
}

// Seed loads the initial tasks and shows the sidebar when kv holds no tasks
// yet. It reports whether anything was written.
func Seed(ctx context.Context, kv KV) (bool, error) {
	_, ok, err := kv.Get(ctx, KeyTasks)
	if err != nil {
		return false, fmt.Errorf("check tasks: %w", err)
	}
	if ok {
		return false, nil
	}
	tasks, err := SeedTasks()
	if err != nil {
		return false, err
	}
	if err := NewTaskStore(kv).ReplaceTasks(ctx, tasks); err != nil {
		return false, err
	}
	if err := NewPreferenceStore(kv).SetShowSidebar(ctx, true); err != nil {
		return false, err
	}
	return true, nil
}
