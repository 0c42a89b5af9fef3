package logger

// Error chain formatting is exported for white-box tests.
var (
	CollectChain = collectChain
	FormatChain  = formatChain
)
