package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	var keywords string

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a podcast episode from keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keywords == "" {
				return fmt.Errorf("--keywords required")
			}
			resp, err := newClient().R().
				SetBody(map[string]interface{}{"keywords": keywords, "userId": userFlag}).
				Post("/api/generate-podcast")
			return printResponse(resp, err)
		},
	}
	generateCmd.Flags().StringVarP(&keywords, "keywords", "k", "", "Episode topic keywords (required)")
	_ = generateCmd.MarkFlagRequired("keywords")
	rootCmd.AddCommand(generateCmd)
}
