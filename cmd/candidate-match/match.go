package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var matchForce bool

var matchCmd = &cobra.Command{
	Use:   "match <project-request-id>",
	Short: "Run matching for one project request",
	Long:  `Compute and persist a matching run synchronously, then print the ranked candidates.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().BoolVar(&matchForce, "force", false, "Recompute even when a result already exists")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid project request id: %q", args[0])
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	results, err := a.matches.ComputeAndPersist(cmd.Context(), id, matchForce)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No candidates matched.")
		return nil
	}
	for i, r := range results {
		fmt.Printf("%2d. consultant %d  score %.2f  %s\n", i+1, r.ConsultantID, r.MatchScore, r.Explanation)
	}
	return nil
}
