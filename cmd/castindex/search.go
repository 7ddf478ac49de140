package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/castindex/search"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	idx, err := deps.Store.LoadIndex(deps.Ctx)
	if err != nil {
		return err
	}

	resp := search.NewEngine(idx).Search(strings.Join(c.Terms, " "))
	if resp.IsGreeting() {
		fmt.Fprintln(deps.Stdout, resp.Greeting)
		return nil
	}
	for _, title := range resp.Titles {
		fmt.Fprintln(deps.Stdout, title)
	}
	return nil
}
