package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/podgenius/podgenius-server/internal/poll"
)

func init() {
	var service string
	var wait bool
	var timeout time.Duration

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show connection or onboarding status for the user",
		Long: `Without --service, shows the user's onboarding status.
With --service gmail or --service calendar, shows that connection's status;
--wait polls until it reports connected, e.g. while an OAuth consent window
is open in the browser.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := statusPath(service)
			if err != nil {
				return err
			}
			client := newClient()
			if !wait {
				resp, err := client.R().Get(path)
				return printResponse(resp, err)
			}

			err = poll.Until(cmd.Context(), 2*time.Second, timeout, func(ctx context.Context) (bool, error) {
				var out struct {
					Connected bool `json:"connected"`
					Completed bool `json:"completed"`
				}
				resp, err := client.R().SetContext(ctx).SetResult(&out).Get(path)
				if err != nil {
					return false, err
				}
				if resp.IsError() {
					return false, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
				}
				return out.Connected || out.Completed, nil
			})
			if err != nil {
				return err
			}
			resp, err := client.R().Get(path)
			return printResponse(resp, err)
		},
	}
	statusCmd.Flags().StringVarP(&service, "service", "s", "", "Connection to check: gmail or calendar (default: onboarding status)")
	statusCmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until connected (or onboarding complete)")
	statusCmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Minute, "Maximum time to wait with --wait")
	rootCmd.AddCommand(statusCmd)
}

func statusPath(service string) (string, error) {
	switch service {
	case "":
		return "/api/user/onboarding-status", nil
	case "gmail", "calendar":
		return "/api/auth/" + service + "-status", nil
	default:
		return "", fmt.Errorf("unknown --service %q (want gmail or calendar)", service)
	}
}
