package main

import (
	"github.com/revelaction/parsedist/task"
)

// newTask returns the named task. A seed makes the random task
// reproducible.
func newTask(name string, seed *uint64) (task.Task, error) {
	if name == task.RandomName && seed != nil {
		return task.NewRandom(task.WithSeed(*seed))
	}
	return task.New(name)
}
