package engine

import (
	"cmp"
	"maps"
	"slices"

	"github.com/poiesic/qagen/core"
)

// Expand turns each file group into Iterations jobs with ids "{group}_{i}",
// i in 1..Iterations. Every job of a group shares the group's *FileGroup.
// Groups with fewer than one iteration produce no jobs.
func Expand(groups map[string]*core.FileGroup) map[core.JobID]*core.Job {
	jobs := make(map[core.JobID]*core.Job)
	for name, group := range groups {
		if group == nil {
			continue
		}
		for i := 1; i <= group.Iterations; i++ {
			id := core.NewJobID(name, i)
			jobs[id] = &core.Job{ID: id, Group: name, Iteration: i, Config: group}
		}
	}
	return jobs
}

// SortedJobs returns jobs ordered by group name, then iteration.
func SortedJobs(jobs map[core.JobID]*core.Job) []*core.Job {
	out := slices.Collect(maps.Values(jobs))
	slices.SortFunc(out, func(a, b *core.Job) int {
		return cmp.Or(cmp.Compare(a.Group, b.Group), cmp.Compare(a.Iteration, b.Iteration))
	})
	return out
}
