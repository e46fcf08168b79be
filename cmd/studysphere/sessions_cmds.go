package main

import (
	"context"
	"strconv"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/auth"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func sessionsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session", "s"},
		Short:   "Browse, create and RSVP to study sessions",
	}
	cmd.AddCommand(
		sessionsListCmd(opts),
		sessionsShowCmd(opts),
		sessionsCreateCmd(opts),
		sessionsRSVPCmd(opts),
		sessionsCancelCmd(opts),
	)
	return cmd
}

func sessionsListCmd(opts *globalOptions) *cobra.Command {
	var search, filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List study sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := api.ParseSessionFilter(filter)
			if err != nil {
				return err
			}
			return run(opts, nil, func(ctx context.Context, a *app) error {
				list, err := a.client.Sessions.List(ctx)
				if err != nil {
					return err
				}
				printSessions(api.FilterSessions(list, search, f))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "q", "", "Match course code, title or group name")
	cmd.Flags().StringVarP(&filter, "filter", "f", string(api.FilterAll), "All, Online, In-Person, This Week or Exam Prep")
	return cmd
}

func sessionsShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a study session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(opts, nil, func(ctx context.Context, a *app) error {
				s, err := a.client.Sessions.Get(ctx, id)
				if err != nil {
					return err
				}
				printSession(s)
				return nil
			})
		},
	}
}

func sessionsCreateCmd(opts *globalOptions) *cobra.Command {
	var in api.SessionInput
	var group int64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Host a new study session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if group > 0 {
				in.Group = &group
			}
			return run(opts, auth.Guard, func(ctx context.Context, a *app) error {
				if _, err := a.client.Sessions.Create(ctx, in); err != nil {
					return err
				}
				a.session.RefreshUser(ctx)
				success("Created %q", in.Title)
				info("You now have %d XP", a.session.User().XP)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "Session title")
	cmd.Flags().StringVar(&in.CourseCode, "course", "", "Course code")
	cmd.Flags().StringVar(&in.Description, "description", "", "What the session covers")
	cmd.Flags().StringVar(&in.Date, "date", "", "Date, e.g. \"Mon, Oct 14\"")
	cmd.Flags().StringVar(&in.Time, "time", "", "Time, e.g. \"8:00 AM - 10:00 AM\"")
	cmd.Flags().StringVar(&in.Location, "location", "", "Room or \"Online\"")
	cmd.Flags().Int64Var(&group, "group", 0, "Group id to post the session in")
	return cmd
}

func sessionsRSVPCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rsvp <id>",
		Short: "RSVP to a study session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(opts, auth.Guard, func(ctx context.Context, a *app) error {
				res, err := a.client.Sessions.RSVP(ctx, id)
				if err != nil {
					return err
				}
				a.session.RefreshUser(ctx)
				printResult(res)
				return nil
			})
		},
	}
}

func sessionsCancelCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an RSVP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(opts, auth.Guard, func(ctx context.Context, a *app) error {
				res, err := a.client.Sessions.CancelRSVP(ctx, id)
				if err != nil {
					return err
				}
				printResult(res)
				return nil
			})
		},
	}
}
