package editerr

// Process exit codes, one per failure kind so scripts can branch without
// parsing output.
const (
	ExitOK         = 0
	ExitUnknown    = 1
	ExitParse      = 2
	ExitNoMatch    = 3
	ExitRange      = 4
	ExitSizeGuard  = 5
	ExitIO         = 6
	ExitValidation = 7
)

// ExitCode maps err to a process exit code. A nil error is ExitOK.
func ExitCode(err error) int {
	switch KindOf(err) {
	case "":
		return ExitOK
	case KindParse:
		return ExitParse
	case KindNoMatch:
		return ExitNoMatch
	case KindRange:
		return ExitRange
	case KindSizeGuard:
		return ExitSizeGuard
	case KindIO:
		return ExitIO
	case KindValidation:
		return ExitValidation
	}
	return ExitUnknown
}
