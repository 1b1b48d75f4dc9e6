package discord

// State is a stage of the update workflow.
type State int

// Workflow stages in the order they are visited.
const (
	StateCheckingTools State = iota
	StateLocatingInstall
	StateReadingVersions
	StateUpToDate
	StateRebuilding
	StateDone
)

var stateNames = map[State]string{ //nolint:gochecknoglobals // Lookup table.
	StateCheckingTools:   "checking-tools",
	StateLocatingInstall: "locating-install",
	StateReadingVersions: "reading-versions",
	StateUpToDate:        "up-to-date",
	StateRebuilding:      "rebuilding",
	StateDone:            "done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "unknown"
}
