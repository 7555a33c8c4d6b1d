package main

import (
	"context"

	"github.com/elimuhub/elimu/core/user"
)

// addAdmin creates an admin account and its profile, for bootstrapping the
// first administrator without the shared signup secret.
func (cli *commandLine) addAdmin(email, name, pwd string) error {
	ctx := context.Background()

	acct, err := cli.provider.SignUp(ctx, email, pwd, name)
	if err != nil {
		return err
	}
	if _, err := cli.profileSvc.Create(ctx, acct.ID, acct.Email, acct.Name, user.RoleAdmin); err != nil {
		return err
	}
	return nil
}
