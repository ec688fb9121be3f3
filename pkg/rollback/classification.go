package rollback

// Classification describes how an action relates to rollback.
type Classification string

const (
	// Reversible actions have a known inverse that the rollback engine can
	// invoke automatically.
	Reversible Classification = "REVERSIBLE"
	// Irreversible actions have no inverse (e.g. sending an email) —
	// a rollback walk records them as acknowledged, not reversed, and
	// continues past them.
	Irreversible Classification = "IRREVERSIBLE"
	// ReadOnly actions never changed state and are skipped during rollback
	// without affecting its outcome.
	ReadOnly Classification = "READ_ONLY"
)
