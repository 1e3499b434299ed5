package errors

import (
	stderrors "errors"

	perrors "github.com/pingcap/errors"
)

var (
	Trace     = perrors.Trace
	Cause     = perrors.Cause
	New       = perrors.New
	Errorf    = perrors.Errorf
	Annotate  = perrors.Annotate
	Annotatef = perrors.Annotatef
	Equal     = perrors.ErrorEqual

	Is   = stderrors.Is
	As   = stderrors.As
	Join = stderrors.Join
)
