package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	var query string
	var topK int

	researchCmd := &cobra.Command{
		Use:   "research",
		Short: "Run a standalone research query",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return fmt.Errorf("--query required")
			}
			resp, err := newClient().R().
				SetBody(map[string]interface{}{"query": query, "numResults": topK}).
				Post("/api/research")
			return printResponse(resp, err)
		},
	}
	researchCmd.Flags().StringVarP(&query, "query", "q", "", "Search query text (required)")
	researchCmd.Flags().IntVarP(&topK, "topk", "k", 5, "Number of results to return")
	_ = researchCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(researchCmd)
}
