package function

import "github.com/doquedb/qxkernel/errs"

var errNotCompatible = errs.New(errs.NotCompatible, nil)
