package main

import (
	"context"
	"fmt"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/auth"
	"github.com/jrsteele09/studysphere/preferences"
	"github.com/spf13/cobra"
)

func dashboardCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your upcoming sessions and stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, auth.Guard, func(ctx context.Context, a *app) error {
				d, err := a.client.Dashboard.Get(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Welcome back, %s\n", a.session.User().DisplayName())
				info("Level %d, %d XP", d.Stats.Level, d.Stats.XP)
				info("Attended %d sessions, hosted %d, in %d groups",
					d.Stats.SessionsAttended, d.Stats.SessionsHosted, d.Stats.GroupsJoined)
				fmt.Println()
				fmt.Println("Upcoming")
				printSessions(d.UpcomingSessions)
				return nil
			})
		},
	}
}

func leaderboardCmd(opts *globalOptions) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top students by XP",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := api.Period(period)
			if p != api.PeriodWeek && p != api.PeriodAll {
				return fmt.Errorf("unknown period %q, use week or all", period)
			}
			return run(opts, nil, func(ctx context.Context, a *app) error {
				entries, err := a.client.Leaderboard.Get(ctx, p)
				if err != nil {
					return err
				}
				var me int64
				if u := a.session.User(); u != nil {
					me = u.ID
				}
				tw := newTable()
				fmt.Fprintln(tw, "RANK\tNAME\tLEVEL\tXP\tBADGE\t")
				for _, e := range entries {
					marker := ""
					if e.ID == me {
						marker = " (you)"
					}
					fmt.Fprintf(tw, "%d\t%s%s\t%d\t%d\t%s\t\n", e.Rank, e.Username, marker, e.Level, e.XP, e.Badge)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&period, "period", string(api.PeriodWeek), "week or all")
	return cmd
}

func adminCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Moderate study groups (staff only)",
	}

	groups := &cobra.Command{
		Use:   "groups",
		Short: "List groups by moderation status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, auth.RequireStaff, func(ctx context.Context, a *app) error {
				out, err := a.client.Admin.Groups(ctx)
				if err != nil {
					return err
				}
				info("Groups %d (approved %d, rejected %d)", out.Stats.TotalGroups, out.Stats.ApprovedGroups, out.Stats.RejectedGroups)
				info("Sessions %d (active %d)", out.Stats.TotalSessions, out.Stats.ActiveSessions)
				fmt.Println()
				fmt.Println("Pending")
				printGroups(out.Pending)
				fmt.Println()
				fmt.Println("Approved")
				printGroups(out.Approved)
				fmt.Println()
				fmt.Println("Rejected")
				printGroups(out.Rejected)
				return nil
			})
		},
	}

	moderate := func(use, short string, call func(ctx context.Context, a *app, id int64) (*api.ActionResult, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return run(opts, auth.RequireStaff, func(ctx context.Context, a *app) error {
					res, err := call(ctx, a, id)
					if err != nil {
						return err
					}
					printResult(res)
					return nil
				})
			},
		}
	}

	cmd.AddCommand(
		groups,
		moderate("approve", "Approve a pending group", func(ctx context.Context, a *app, id int64) (*api.ActionResult, error) {
			return a.client.Admin.Approve(ctx, id)
		}),
		moderate("reject", "Reject a group", func(ctx context.Context, a *app, id int64) (*api.ActionResult, error) {
			return a.client.Admin.Reject(ctx, id)
		}),
	)
	return cmd
}

func themeCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the display theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				theme, err := a.themes.Load(ctx)
				if err != nil {
					return err
				}
				info("Theme: %s", theme)
				return nil
			})
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch between dark and light",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(opts, func(ctx context.Context, a *app) error {
					theme, err := a.themes.Toggle(ctx)
					if err != nil {
						return err
					}
					success("Theme set to %s", theme)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <dark|light>",
			Short: "Choose a theme",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				theme, err := preferences.ParseTheme(args[0])
				if err != nil {
					return err
				}
				return withApp(opts, func(ctx context.Context, a *app) error {
					if err := a.themes.Set(ctx, theme); err != nil {
						return err
					}
					success("Theme set to %s", theme)
					return nil
				})
			},
		},
	)
	return cmd
}
