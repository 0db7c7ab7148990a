package publish

// Process exit codes returned by cargo-gh-pages.
const (
	// ExitSuccess indicates the documentation was published.
	ExitSuccess = 0

	// ExitDirtyTree indicates uncommitted changes blocked a real run.
	ExitDirtyTree = 101

	// ExitUnknownConfigKey indicates the metadata table holds an unrecognized key.
	ExitUnknownConfigKey = 109

	// ExitFatal indicates any other failure.
	ExitFatal = 128
)

// Outcome is the single result of a publish run.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeUnknownConfigKey
	OutcomeDirtyTree
	OutcomeFatal
)

func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeSuccess:
		return ExitSuccess
	case OutcomeUnknownConfigKey:
		return ExitUnknownConfigKey
	case OutcomeDirtyTree:
		return ExitDirtyTree
	default:
		return ExitFatal
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnknownConfigKey:
		return "unknown-config-key"
	case OutcomeDirtyTree:
		return "dirty-tree"
	default:
		return "fatal"
	}
}

// State is a stage of the publish pipeline. States are reached in order.
type State int

const (
	StateStart State = iota
	StateConfigValidated
	StateCleanlinessChecked
	StateDocsBuilt
	StateRepoInitialized
	StateStaged
	StateCommitted
	StateRemoteResolved
	StatePushed
)

var stateNames = [...]string{
	StateStart:              "start",
	StateConfigValidated:    "config-validated",
	StateCleanlinessChecked: "cleanliness-checked",
	StateDocsBuilt:          "docs-built",
	StateRepoInitialized:    "repo-initialized",
	StateStaged:             "staged",
	StateCommitted:          "committed",
	StateRemoteResolved:     "remote-resolved",
	StatePushed:             "pushed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
