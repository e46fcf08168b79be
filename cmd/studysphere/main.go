package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:   "studysphere",
		Short: "StudySphere from the terminal",
		Long: `StudySphere is a collaborative study platform.

Find study sessions, join groups, earn XP and climb the leaderboard
without leaving the terminal. Credentials are kept in a local store and
refreshed transparently when they expire.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Backend REST root (default $STUDYSPHERE_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&opts.quiet, "quiet", false, "Do not print the banner")

	rootCmd.AddCommand(
		loginCmd(&opts),
		loginGoogleCmd(&opts),
		registerCmd(&opts),
		logoutCmd(&opts),
		whoamiCmd(&opts),
		sessionsCmd(&opts),
		groupsCmd(&opts),
		dashboardCmd(&opts),
		leaderboardCmd(&opts),
		adminCmd(&opts),
		themeCmd(&opts),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("studysphere %s (%s)\n", version, commit)
		},
	}
}

func printBanner(appName string) {
	myFigure := figure.NewFigure(appName, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
