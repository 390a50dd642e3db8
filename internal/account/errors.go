package account

import "errors"

var (
	ErrUnknownAccount  = errors.New("unknown account")
	ErrUnknownSearch   = errors.New("unknown search")
	ErrUnknownDomain   = errors.New("unknown domain")
	ErrInvalidArgument = errors.New("invalid argument")
)
