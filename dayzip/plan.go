package dayzip

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dendrascience/dayzip/internal/logger"
)

// Plan computes the archives Run would write from the input headers alone.
// Nothing is extracted or created. Members sharing a name resolve to the
// one from the lexically last archive, as extraction does; in flat mode
// members inside folders are left out, as bucketing does.
func (p *Pipeline) Plan(ctx context.Context) ([]PlannedArchive, error) {
	if err := checkInputDir(p.cfg.InputDir); err != nil {
		return nil, err
	}
	archives, err := FindArchives(p.cfg.InputDir)
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Path: p.cfg.InputDir, Err: err}
	}

	latest := make(map[string]time.Time)
	for _, path := range archives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sa, err := ReadArchive(path)
		if err != nil {
			return nil, err
		}
		for _, m := range sa.Members {
			if m.Dir {
				continue
			}
			if !p.cfg.Recursive && strings.Contains(strings.TrimSuffix(m.Name, "/"), "/") {
				continue
			}
			latest[m.Name] = m.Modified
		}
	}

	counts := make(map[string]int)
	for _, modified := range latest {
		counts[BucketKey(modified)]++
	}
	planned := make([]PlannedArchive, 0, len(counts))
	for key, count := range counts {
		date, err := ParseBucketKey(key)
		if err != nil {
			return nil, &StageError{Stage: StageArchive, Path: key, Err: err}
		}
		planned = append(planned, PlannedArchive{
			Name:  p.namer.Render(date, count),
			Key:   key,
			Date:  date,
			Count: count,
		})
	}
	slices.SortFunc(planned, func(a, b PlannedArchive) int {
		return a.Date.Compare(b.Date)
	})
	p.log.Debug("planned archives", logger.Int("archives", len(planned)), logger.Int("files", len(latest)))
	return planned, nil
}
