// Command zenview is a terminal viewer for Zendesk support tickets.
// It fetches tickets once, keeps them in a local snapshot, and serves
// list/search/paginate operations from memory.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mzrithm/zenview/internal/config"
	"github.com/mzrithm/zenview/internal/logging"
)

var (
	cfg *config.Config

	flagPage     int
	flagPageSize int
	flagOffline  bool
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(logging.Config{
		Level:     logging.ParseLevel(cfg.Log.Level),
		SentryDSN: cfg.Log.SentryDSN,
		LogFile:   cfg.Log.File,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Flush(2 * time.Second)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zenview",
	Short: "Terminal viewer for Zendesk support tickets",
	Long: `zenview - Browse Zendesk tickets from the terminal.

Tickets are fetched from the Zendesk API and cached locally; all listing,
searching, and paging runs against that local snapshot until you sync again.

Configure credentials in ~/.config/zenview/config.yaml:

  zendesk:
    subdomain: yourcompany
    email: agent@yourcompany.com
    api_token: $ZENDESK_TOKEN

Examples:
  zenview                          # Interactive browser
  zenview sync                     # Refresh the local snapshot
  zenview list --page 2            # Second page of all tickets
  zenview search subject login     # Subject search
  zenview search tag billing       # Exact tag match
  zenview tags                     # Tag usage report
  zenview get 42                   # One ticket in full`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse()
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets a page at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(flagPage)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single ticket in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ticket id %q", args[0])
		}
		return runGet(id)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search tickets",
}

var searchSubjectCmd = &cobra.Command{
	Use:   "subject <term>",
	Short: "Search ticket subjects (case-insensitive substring)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(fieldSubject, args[0], flagPage)
	},
}

var searchDescriptionCmd = &cobra.Command{
	Use:   "description <term>",
	Short: "Search ticket descriptions (case-insensitive substring)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(fieldDescription, args[0], flagPage)
	},
}

var searchTagCmd = &cobra.Command{
	Use:   "tag <tag>",
	Short: "Find tickets carrying an exact tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(fieldTag, args[0], flagPage)
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show every tag in use with its frequency",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTags()
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch tickets from Zendesk and replace the local snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync()
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse tickets interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse()
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagPageSize, "page-size", 0, "Tickets per page (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Serve from the local snapshot, never fetch")

	listCmd.Flags().IntVar(&flagPage, "page", 1, "Page to display (1-indexed)")
	searchSubjectCmd.Flags().IntVar(&flagPage, "page", 1, "Page to display (1-indexed)")
	searchDescriptionCmd.Flags().IntVar(&flagPage, "page", 1, "Page to display (1-indexed)")
	searchTagCmd.Flags().IntVar(&flagPage, "page", 1, "Page to display (1-indexed)")

	searchCmd.AddCommand(searchSubjectCmd, searchDescriptionCmd, searchTagCmd)
	rootCmd.AddCommand(listCmd, getCmd, searchCmd, tagsCmd, syncCmd, browseCmd)
}


