package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/podgenius/podgenius-server/internal/poll"
)

func init() {
	var wait bool
	var timeout time.Duration

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Show service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			if !wait {
				resp, err := client.R().Get("/api/health")
				return printResponse(resp, err)
			}

			// The endpoint always answers 200; wait on the body status.
			return poll.Until(cmd.Context(), 2*time.Second, timeout, func(ctx context.Context) (bool, error) {
				var out struct {
					Status string `json:"status"`
				}
				resp, err := client.R().SetContext(ctx).SetResult(&out).Get("/api/health")
				if err != nil {
					// The service may not be listening yet.
					return false, nil
				}
				if resp.IsError() {
					return false, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
				}
				return out.Status == "healthy", nil
			})
		},
	}
	healthCmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until the service reports healthy")
	healthCmd.Flags().DurationVarP(&timeout, "timeout", "t", 2*time.Minute, "Maximum time to wait with --wait")
	rootCmd.AddCommand(healthCmd)
}
