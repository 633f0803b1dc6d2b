package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trezcool/learnerair/core/user"
)

func (cli *commandLine) addUserCmd() *cobra.Command {
	var nu user.NewUser
	var perms []string

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create a user; the password is prompted next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := promptPassword(cmd)
			if err != nil {
				return err
			}
			nu.Password = pwd
			for _, p := range perms {
				nu.Permissions = append(nu.Permissions, user.Permission(p))
			}

			usr, err := cli.usrSvc.Create(cmd.Context(), nu)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q created (id: %s)\n", usr.RoleName(), usr.Username, usr.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&nu.Username, "username", "", "The user's username")
	flags.StringVar(&nu.FullName, "fullname", "", "The user's full name")
	flags.StringVar(&nu.Role, "role", "", "One of headteacher, teacher, student")
	flags.StringVar(&nu.YearGroup, "year", "", "The student's year group")
	flags.StringVar(&nu.Class, "class", "", "The student's class")
	flags.StringSliceVar(&perms, "perm", nil, "A permission granted to the teacher (repeatable)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("fullname")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
