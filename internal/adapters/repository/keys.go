package repository

// Storage keys keep the namespace used by earlier releases of the app so
// their data is picked up unchanged.
const (
	KeyPrefix = "@habit_tracker/"

	KeyHabits       = KeyPrefix + "habits"
	KeyCompletions  = KeyPrefix + "completions"
	KeySyncMetadata = KeyPrefix + "sync_metadata"

	// KeyLegacyCheckIns held completions before they were renamed. It is
	// read once, relocated to KeyCompletions and cleared.
	KeyLegacyCheckIns = KeyPrefix + "check_ins"
)
