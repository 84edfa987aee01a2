package types

// ExtractOutcome classifies the result of unpacking one archive.
type ExtractOutcome int

const (
	// ExtractSuccess means every entry was extracted.
	ExtractSuccess ExtractOutcome = iota

	// ExtractBadArchive means the container is corrupt or not a recognized archive.
	ExtractBadArchive

	// ExtractWrongPassword means decryption/authentication failed in a way
	// distinguishable from generic corruption.
	ExtractWrongPassword

	// ExtractOtherFailure covers any other I/O or format error.
	ExtractOtherFailure
)

func (o ExtractOutcome) String() string {
	switch o {
	case ExtractSuccess:
		return "success"
	case ExtractBadArchive:
		return "bad archive"
	case ExtractWrongPassword:
		return "wrong password"
	case ExtractOtherFailure:
		return "other failure"
	default:
		return "unknown"
	}
}
