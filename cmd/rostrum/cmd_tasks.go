package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rostrum-dev/rostrum/internal/combination"
	"github.com/rostrum-dev/rostrum/internal/tasks"
)

func newTasksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the registered tasks",
		Long: `List every registered task with its aggregation family, whether it
supports difficulty tiers, and how many filter combinations a run
precomputes for it.`,
		RunE: tasksCommandE,
	}
}

//nolint:errcheck
func tasksCommandE(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	all := tasks.All()

	fmt.Fprintf(w, "%s %s %s %s\n",
		padRight("Task", 28), padRight("Family", 16), padRight("Difficulty", 11), "Combos")
	total := 0
	for _, task := range all {
		difficulty := "—"
		if task.HasDifficulty {
			difficulty = "yes"
		}
		combos := len(combination.Enumerate(task))
		total += combos
		fmt.Fprintf(w, "%s %s %s %d\n",
			padRight(task.ID, 28),
			padRight(string(task.Family), 16),
			padRight(difficulty, 11),
			combos)
	}
	fmt.Fprintf(w, "\n%d task(s), %d combination(s) per full run\n", len(all), total)

	return nil
}
