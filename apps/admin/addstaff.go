package main

import "context"

// addStaff updates or creates a staff.Staff account.
func (cli *commandLine) addStaff(uname, email, pwd string, isAdmin bool) error {
	_, err := cli.staffSvc.UpdateOrCreate(context.Background(), uname, email, pwd, isAdmin)
	return err
}
