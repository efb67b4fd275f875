package testcmd

type Case struct {
	Name string
	Args []string
	Exit int

	// Stdout and Stderr list text that must appear in the respective output,
	// after it has been normalized. The full output is also matched against
	// the snapshot of the test.
	Stdout []string
	Stderr []string

	// ReplaceRules are only used for JSON output
	ReplaceRules []JSONReplaceRule
}
