package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (cli *commandLine) credentialsCmd() *cobra.Command {
	var uname string

	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Reveal a user's login information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			usr, err := cli.usrSvc.GetByUsername(cmd.Context(), uname)
			if err != nil {
				return err
			}
			creds, err := cli.usrSvc.Credentials(cmd.Context(), usr.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:     %s\n", creds.FullName)
			fmt.Fprintf(out, "username: %s\n", creds.Username)
			fmt.Fprintf(out, "password: %s\n", creds.Password)
			return nil
		},
	}
	cmd.Flags().StringVar(&uname, "username", "", "The user's username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
