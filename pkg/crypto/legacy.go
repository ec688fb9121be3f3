package crypto

import "fmt"

// legacySigSeparator joined a handful of receipt fields with this separator
// and signed the resulting string — the first-generation scheme.
const legacySigSeparator = ":"

// legacyCanonicalizeReceipt reproduces the superseded signing input: a
// delimiter-joined concatenation of a handful of fields. It left payload,
// policyResults, and actionsTaken entirely outside the signature, so a
// tampered payload or an added action verified as untouched.
//
// Deprecated: kept only as a documented historical reference. SignableJSON
// is the normative signing input; nothing in this module calls this
// function, and no receipt produced by HMACSigner can be verified against it.
func legacyCanonicalizeReceipt(runID, workflow, userEmail, decision string) string {
	return fmt.Sprintf("%s%s%s%s%s%s%s", runID, legacySigSeparator, workflow, legacySigSeparator, userEmail, legacySigSeparator, decision)
}
