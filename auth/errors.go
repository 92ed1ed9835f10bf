package auth

import "github.com/doquedb/qxkernel/errs"

var (
	errUserRequired    = errs.New(errs.UserRequired, nil)
	errTooLongUserName = errs.New(errs.TooLongUserName, nil)
	errInvalidUserName = errs.New(errs.InvalidUserName, nil)
	errUserNotFound    = errs.New(errs.UserNotFound, nil)
	errAuthFailed      = errs.New(errs.AuthorizationFailed, nil)
	errBadPasswordFile = errs.New(errs.BadPasswordFile, nil)
)
