package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartstock/smartstock/internal/auth"
	"github.com/smartstock/smartstock/internal/rbac"
)

type accountFlags struct {
	email      string
	password   string
	role       string
	firstName  string
	lastName   string
	username   string
	department string
}

func (f accountFlags) input() (auth.NewAccountInput, error) {
	if f.email == "" || f.password == "" {
		return auth.NewAccountInput{}, errors.New("--email and --password are required")
	}
	role := rbac.NormalizeRole(f.role)
	if !rbac.ValidRole(role) {
		return auth.NewAccountInput{}, fmt.Errorf("unknown role %q", f.role)
	}
	username := f.username
	if username == "" {
		username = f.email
	}
	return auth.NewAccountInput{
		FirstName:  f.firstName,
		LastName:   f.lastName,
		Username:   username,
		Email:      f.email,
		Department: f.department,
		Role:       role,
		Password:   f.password,
	}, nil
}

func newCreateAccountCmd() *cobra.Command {
	var flags accountFlags
	cmd := &cobra.Command{
		Use:   "create-account",
		Short: "Create a user account, typically the first manager",
		Example: `  smartstockctl create-account --email boss@example.com --password s3cret123 --role manager`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := flags.input()
			if err != nil {
				return err
			}
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			svc := auth.NewService(auth.NewRepository(e.pool), nil, nil)
			account, err := svc.CreateAccount(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created account %d (%s, %s)\n", account.ID, account.Email, account.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.email, "email", "", "login email")
	cmd.Flags().StringVar(&flags.password, "password", "", "initial password")
	cmd.Flags().StringVar(&flags.role, "role", rbac.RoleManager, "manager, admin or user")
	cmd.Flags().StringVar(&flags.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&flags.lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&flags.username, "username", "", "username, defaults to the email")
	cmd.Flags().StringVar(&flags.department, "department", "", "department")
	return cmd
}
