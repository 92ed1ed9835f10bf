// Command useradd is a non-interactive administrative tool for managing
// the password file: add, delete (with optional cascade), and change
// password, grounded on Utility/UserAdd and the teacher's cmd/mysqldef
// go-flags option layer. Scripted tools get one admission attempt
// (spec.md §6); this tool doesn't admit a session at all — it edits the
// password file directly, the way the original UserAdd utility does.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/doquedb/qxkernel/auth"
	"github.com/doquedb/qxkernel/errs"
	"github.com/doquedb/qxkernel/util"
)

type options struct {
	PasswordFile string `long:"password-file" description:"path to the password file" value-name:"path" required:"true"`
	Add          bool   `long:"add" description:"add a user"`
	Delete       bool   `long:"delete" description:"delete a user"`
	Cascade      bool   `long:"cascade" description:"when deleting, also revoke every privilege the user's id held"`
	ChangePass   bool   `long:"change-password" description:"change a user's password"`
	Name         string `long:"name" description:"user name" value-name:"name"`
	Password     string `long:"password" description:"password" value-name:"password"`
	ID           int    `long:"id" description:"user id, required with --add" value-name:"id"`
	SuperUser    bool   `long:"super-user" description:"create a super-user (default: db-user)"`
	Help         bool   `long:"help" description:"show this help"`
}

func parseOptions(args []string) *options {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "--password-file path [--add|--delete|--change-password] --name name [...]"
	if _, err := parser.ParseArgs(args); err != nil {
		log.Fatal(err)
	}
	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	return &opts
}

func run(opts *options) error {
	pf := auth.NewPasswordFile(opts.PasswordFile)
	users, err := pf.Load()
	if err != nil {
		return err
	}

	switch {
	case opts.Add:
		category := auth.CategoryDBUser
		if opts.SuperUser {
			category = auth.CategorySuperUser
		}
		entry := auth.NewUserEntry(opts.Name, opts.Password, opts.ID, category)
		if err := users.Add(opts.Name, entry, false); err != nil {
			return err
		}
		return pf.Save(users)

	case opts.Delete:
		revokeID, err := users.DeleteUser(pf, opts.Name, opts.Cascade)
		if err != nil {
			return err
		}
		if opts.Cascade && revokeID != 0 {
			fmt.Printf("user %q (id=%d) deleted; revoke its privileges in the schema catalog\n", opts.Name, revokeID)
		}
		return nil

	case opts.ChangePass:
		return users.ChangePassword(pf, opts.Name, opts.Password)

	default:
		return fmt.Errorf("useradd: specify one of --add, --delete, --change-password")
	}
}

func main() {
	util.InitSlog()
	opts := parseOptions(os.Args[1:])
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "useradd: %v (%s)\n", err, errs.KindOf(err))
		os.Exit(1)
	}
	os.Exit(0)
}
