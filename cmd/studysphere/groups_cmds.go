package main

import (
	"context"
	"fmt"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/auth"
	"github.com/spf13/cobra"
)

func groupsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group", "g"},
		Short:   "Browse, create and join study groups",
	}
	cmd.AddCommand(
		groupsListCmd(opts),
		groupsShowCmd(opts),
		groupsCreateCmd(opts),
		groupsJoinCmd(opts),
		groupsLeaveCmd(opts),
	)
	return cmd
}

func groupsListCmd(opts *globalOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List study groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, nil, func(ctx context.Context, a *app) error {
				list, err := a.client.Groups.List(ctx)
				if err != nil {
					return err
				}
				printGroups(api.FilterGroups(list, search))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "q", "", "Match name, subject or description")
	return cmd
}

func groupsShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a group and its sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(opts, nil, func(ctx context.Context, a *app) error {
				g, err := a.client.Groups.Get(ctx, id)
				if err != nil {
					return err
				}
				printGroup(g)

				list, err := a.client.Groups.Sessions(ctx, id)
				if err != nil {
					return err
				}
				fmt.Println()
				printSessions(list)
				return nil
			})
		},
	}
}

func groupsCreateCmd(opts *globalOptions) *cobra.Command {
	var in api.GroupInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Propose a new study group",
		Long: `Propose a new study group.

New groups wait for a staff member to approve them before they are
listed or can be joined.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, auth.Guard, func(ctx context.Context, a *app) error {
				if _, err := a.client.Groups.Create(ctx, in); err != nil {
					return err
				}
				a.session.RefreshUser(ctx)
				success("Created %q, pending approval", in.Name)
				info("You now have %d XP", a.session.User().XP)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Group name")
	cmd.Flags().StringVar(&in.Subject, "subject", "", "Subject or course code")
	cmd.Flags().StringVar(&in.Description, "description", "", "What the group is about")
	return cmd
}

func groupsJoinCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "join <id>",
		Short: "Join a study group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(opts, auth.Guard, func(ctx context.Context, a *app) error {
				res, err := a.client.Groups.Join(ctx, id)
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

func groupsLeaveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "leave <id>",
		Short: "Leave a study group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(opts, auth.Guard, func(ctx context.Context, a *app) error {
				res, err := a.client.Groups.Leave(ctx, id)
				if err != nil {
					return err
				}
				printResult(res)
				return nil
			})
		},
	}
}
