package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	fetchDays        int
	leaderboardBy    string
	leaderboardLimit int
	previewK         float64
	partnersLimit    int
)

func init() {
	fetchCmd.Flags().IntVar(&fetchDays, "days", 7, "How many days back to import")
	leaderboardCmd.Flags().StringVar(&leaderboardBy, "by", "rating", "Rank by rating or points")
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 10, "Number of players to show")
	previewCmd.Flags().Float64Var(&previewK, "k", 0, "K factor to use, 0 picks one from experience")
	partnersCmd.Flags().IntVar(&partnersLimit, "limit", 5, "Number of suggestions")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(partnersCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health", nil)
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Import finished tennis matches from Playtomic",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/fetch", url.Values{"days": {strconv.Itoa(fetchDays)}})
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Rate and announce all pending matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/process", nil)
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List the members in the club store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/members", nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the club leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard", url.Values{
			"by":    {leaderboardBy},
			"limit": {strconv.Itoa(leaderboardLimit)},
		})
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress <player>",
	Short: "Show a player's tier and what the next tier needs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/progress", url.Values{"player": {args[0]}})
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <player-a> <player-b>",
	Short: "Preview the rating changes of a singles match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{"a": {args[0]}, "b": {args[1]}}
		if previewK != 0 {
			params.Set("k", strconv.FormatFloat(previewK, 'f', -1, 64))
		}
		return performGetRequest("/preview", params)
	},
}

var partnersCmd = &cobra.Command{
	Use:   "partners <player>",
	Short: "Suggest the most even opponents for a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/partners", url.Values{
			"player": {args[0]},
			"limit":  {strconv.Itoa(partnersLimit)},
		})
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics", nil)
	},
}

func buildURL(endpoint string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	if dryRun {
		params.Set("dry_run", "true")
	}
	if verbose {
		params.Set("verbose", "true")
	}
	u := host + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func performGetRequest(endpoint string, params url.Values) error {
	url := buildURL(endpoint, params)
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
