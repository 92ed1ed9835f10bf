// Command sqlictl is an interactive session driver, grounded on
// Utility/Sqli and the teacher's cmd/mysqldef option-parsing style
// (go-flags for options, golang.org/x/term for the password prompt).
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"syscall"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/doquedb/qxkernel/admission"
	"github.com/doquedb/qxkernel/auth"
	"github.com/doquedb/qxkernel/errs"
	"github.com/doquedb/qxkernel/kernel"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/util"
)

var version string

type options struct {
	User             string `short:"u" long:"user" description:"user name" value-name:"user_name" default:"root"`
	Password         string `long:"password" description:"password, overridden by interactive prompt" value-name:"password"`
	Prompt           bool   `long:"password-prompt" description:"force an interactive password prompt"`
	PasswordFile     string `long:"password-file" description:"path to the password file" value-name:"path"`
	Database         string `long:"database" description:"database to bind the session to" value-name:"db_name" default:"default"`
	NoPasswordCheck  bool   `long:"no-password-management" description:"accept any non-empty user name unchecked (backward compat)"`
	Explain          bool   `long:"explain" description:"run in explain mode instead of executing operators"`
	Help             bool   `long:"help" description:"show this help"`
	Version          bool   `long:"version" description:"show this version"`
}

func parseOptions(args []string) (*options, *flags.Parser) {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options]"
	if _, err := parser.ParseArgs(args); err != nil {
		log.Fatal(err)
	}
	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	return &opts, parser
}

func readPassword(opts *options) string {
	if opts.Prompt {
		fmt.Print("Enter Password: ")
		pass, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println()
		return string(pass)
	}
	return opts.Password
}

func main() {
	util.InitSlog()
	opts, _ := parseOptions(os.Args[1:])

	if err := auth.RevertBackupFile(opts.PasswordFile); err != nil {
		log.Fatal(err)
	}
	pf := auth.NewPasswordFile(opts.PasswordFile)
	users, err := pf.Load()
	if err != nil {
		log.Fatal(err)
	}

	gate := admission.NewGate(users, !opts.NoPasswordCheck)
	password := readPassword(opts)

	sess, err := gate.Admit(admission.InteractiveAttempts, func(attempt int) (admission.Credentials, error) {
		if attempt > 1 {
			password = readPassword(&options{Prompt: true})
		}
		return admission.Credentials{
			UserName:     opts.User,
			Password:     password,
			DatabaseName: opts.Database,
		}, nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(1)
	}

	fmt.Printf("session admitted: user=%s database=%s\n", sess.UserName(), sess.DatabaseName())
	runRepl(sess, opts.Explain)
}

// runRepl is a minimal read-eval-print loop stub: for every non-empty line
// it runs a fresh, empty program.Program (through kernel.ExplainDriver when
// explain is set, kernel.Driver otherwise) and reports the error. The
// line's text is not used: there is no SQL parser / planner here to turn
// it into a plan (an out-of-scope external collaborator, spec.md §1), so
// every run reports that the program has no root iterator.
func runRepl(sess interface{ SessionID() int64 }, explain bool) {
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		p := program.New()
		var err error
		if explain {
			err = kernel.NewExplainDriver(p, os.Stdout).Run(ctx)
		} else {
			err = kernel.New(p).Run(ctx)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error (%s): %v\n", errs.KindOf(err), err)
			continue
		}
	}
}
