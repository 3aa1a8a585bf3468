package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command. The issued token is printed
// so it can be exported as GROCER_TOKEN for mutating commands.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:          "login",
		Short:        "Authenticate and print a bearer token",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := rootOpts.Session()
			result, err := session.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Printf("logged in as %s (%s)\n", result.Username, result.Level)
			fmt.Printf("export GROCER_TOKEN=%s\n", result.Token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "operator username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "operator password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:          "register",
		Short:        "Create an operator account",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := rootOpts.Session()
			if err := session.Register(cmd.Context(), username, password); err != nil {
				return err
			}
			fmt.Printf("operator %s registered\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "operator username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "operator password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
