package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/castindex"
	"github.com/fwojciec/castindex/sqlite"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	if deps.DB == nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set CASTINDEX_INDEX_DRIVER=sqlite to record runs\n")
		return castindex.Errorf(castindex.EINVALID, "runs are only recorded by the sqlite index driver")
	}
	if c.Limit < 0 {
		return castindex.Errorf(castindex.EINVALID, "limit must be >= 0")
	}

	runs, err := sqlite.NewIndexStore(deps.DB).Runs(deps.Ctx, c.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Run 'castindex crawl' first.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d words, %d postings\n",
			run.ID, run.CreatedAt.Format(time.RFC3339), run.Words, run.Postings)
	}
	return nil
}
