package command

const (
	exitCodeSuccess              = 0
	exitCodeError                = 1
	exitCodeAlreadyExist         = 2
	exitCodeNotExist             = 4
	exitCodeVersionNotSatisfying = 5
)
