package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/depstate/internal/errors"
	"github.com/vango-dev/depstate/internal/scenario"
	"github.com/vango-dev/depstate/pkg/depstate"
)

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare PREV NEXT",
		Short: "Report whether two dependency lists are equal",
		Long: `Compare two dependency lists, given as JSON arrays, the way the hook
does between renders: same length and every element the same value.

Numbers, strings, booleans and null compare by value. Objects and
arrays compare by identity, so two literal objects are never the same.

Examples:
  depstate compare '[1, "a"]' '[1, "a"]'
  depstate compare '[1, 2]' '[1, 2, 3]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prev, err := decodeDeps(args[0])
			if err != nil {
				return err
			}
			next, err := decodeDeps(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if depstate.DepsEqual(prev, next) {
				fmt.Fprintln(out, "equal: state is kept")
				return nil
			}
			fmt.Fprintf(out, "changed (%s): state is reset\n", difference(prev, next))
			return nil
		},
	}
}

func decodeDeps(arg string) ([]any, error) {
	var deps []any
	if err := json.Unmarshal([]byte(arg), &deps); err != nil {
		return nil, errors.New("E140").
			WithDetailf("dependency list %s is not a JSON array", arg).
			Wrap(err)
	}
	return scenario.Normalize(deps).([]any), nil
}

func difference(prev, next []any) string {
	if len(prev) != len(next) {
		return fmt.Sprintf("length %d -> %d", len(prev), len(next))
	}
	for i := range prev {
		if !depstate.Same(prev[i], next[i]) {
			return fmt.Sprintf("index %d", i)
		}
	}
	return "unknown"
}
