package model

// IntentKind discriminates the install intent variants.
type IntentKind int

// Install intent variants.
const (
	// IntentInitial installs user-provided archives or folders.
	IntentInitial IntentKind = iota
	// IntentResumed resumes a previously suspended install after the user
	// confirmed the overwrite.
	IntentResumed
	// IntentDownload installs a known mod's newer version from its remote
	// source.
	IntentDownload
)

// InstallIntent describes why an install is happening. Exactly one live
// intent exists per in-flight installation task.
type InstallIntent struct {
	Kind IntentKind

	// Sources holds the archive or folder paths of an Initial intent.
	Sources []string

	// Entry is the candidate mod of a Resumed intent, or the installed mod
	// being updated by a Download intent.
	Entry *ModEntry

	// Destination is the pending destination of a Resumed intent, carried
	// unchanged from the Duplicate message that suspended the task.
	Destination PendingDestination

	// Conflict identifies what must be removed before placement when
	// resuming.
	Conflict ConflictIdentity
}

// InitialIntent builds an intent for user-provided archive or folder sources.
func InitialIntent(sources ...string) InstallIntent {
	return InstallIntent{Kind: IntentInitial, Sources: sources}
}

// ResumedIntent builds an intent resuming a suspended install.
func ResumedIntent(entry *ModEntry, dest PendingDestination, conflict ConflictIdentity) InstallIntent {
	return InstallIntent{Kind: IntentResumed, Entry: entry, Destination: dest, Conflict: conflict}
}

// DownloadIntent builds an intent re-fetching a known mod's newer version.
func DownloadIntent(entry *ModEntry) InstallIntent {
	return InstallIntent{Kind: IntentDownload, Entry: entry}
}

// ConflictKind discriminates the conflict identity variants.
type ConflictKind int

// Conflict identity variants.
const (
	ConflictNone ConflictKind = iota
	// ConflictByID means a mod with the same id is already registered.
	ConflictByID
	// ConflictByPath means a filesystem entry already occupies the
	// destination path.
	ConflictByPath
)

// ConflictIdentity describes what an incoming mod collides with. It is
// produced by the conflict detector and threaded back unchanged through the
// suspend/resume cycle so the resume step knows exactly what to remove.
type ConflictIdentity struct {
	Kind ConflictKind

	// ID is the colliding mod id for ConflictByID.
	ID string

	// Path is the filesystem entry to remove before placement. For
	// ConflictByID it is the existing mod's root taken from the registry
	// snapshot; for ConflictByPath it is the occupied destination.
	Path string
}

// IsConflict reports whether the identity describes an actual collision.
func (c ConflictIdentity) IsConflict() bool { return c.Kind != ConflictNone }

// PendingDestination describes where a candidate mod will ultimately live.
// The true destination name is only knowable after the manifest is parsed,
// which can only happen after extraction, so a candidate is first Staged and
// later Resolved.
type PendingDestination struct {
	// Staged is the temporary extraction root still awaiting placement.
	Staged string
	// Resolved is the final path once the destination is known.
	Resolved string
}

// MessageKind discriminates the install message variants.
type MessageKind int

// Install message variants.
const (
	// MessageSuccess terminates a task after a completed install.
	MessageSuccess MessageKind = iota
	// MessageDuplicate suspends a task pending an overwrite decision. It
	// occurs at most once per task and always precedes the terminal
	// message of the resumed task.
	MessageDuplicate
	// MessageError terminates a task after a failure.
	MessageError
)

// InstallMessage is emitted by the install pipeline to its consumer. Exactly
// one Success or final Error terminates a given install task.
type InstallMessage struct {
	Kind MessageKind

	// Entry is the parsed candidate for Success and Duplicate messages.
	Entry *ModEntry

	// Conflict and Destination accompany Duplicate messages and must be
	// passed back unchanged in the Resumed intent.
	Conflict    ConflictIdentity
	Destination PendingDestination

	// Err is the human-readable description of an Error message.
	Err string
}

// SuccessMessage builds a terminal success message.
func SuccessMessage(entry *ModEntry) InstallMessage {
	return InstallMessage{Kind: MessageSuccess, Entry: entry}
}

// DuplicateMessage builds a suspension message for a detected conflict.
func DuplicateMessage(conflict ConflictIdentity, dest PendingDestination, entry *ModEntry) InstallMessage {
	return InstallMessage{Kind: MessageDuplicate, Entry: entry, Conflict: conflict, Destination: dest}
}

// ErrorMessage builds a terminal error message.
func ErrorMessage(err error) InstallMessage {
	return InstallMessage{Kind: MessageError, Err: err.Error()}
}
