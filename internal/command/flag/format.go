package flag

const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatPlain = "plain"
)

// NewFormatFlag returns a --format flag selecting the output format of
// listings, it defaults to FormatPlain.
func NewFormatFlag() *OneOf {
	return NewOneOfFlag("format", FormatPlain, "output format", FormatCSV, FormatJSON, FormatPlain)
}
