package domain

// BuildState is the per-project, per-command record persisted after a task
// runs: the file-hash map the change analyzer produced for the inputs that
// fed the command, and the exact argument string the command ran with.
// A later run recomputes both and compares them against this record to
// decide whether the task's own inputs changed since last time.
type BuildState struct {
	// Files is the path -> content-hash map captured at the time the task
	// last ran, keyed exactly as FileHashMap.AsMap returns it.
	Files map[string]string `json:"files"`

	// Arguments is the command string the task ran with, so a task whose
	// script changed (but whose files didn't) is still detected as changed.
	Arguments string `json:"arguments"`
}

// FileHashMap rebuilds the FileHashMap this state recorded.
func (s BuildState) FileHashMap() *FileHashMap {
	return FileHashMapFromMap(s.Files)
}

// Matches reports whether the given file-hash map and argument string are
// identical to the ones this state recorded, i.e. whether the project's
// own inputs are unchanged since the last run.
func (s BuildState) Matches(files *FileHashMap, arguments string) bool {
	if s.Arguments != arguments {
		return false
	}
	return files.Equal(s.FileHashMap())
}

// NewBuildState captures a BuildState from a freshly computed file-hash map
// and the command's argument string.
func NewBuildState(files *FileHashMap, arguments string) BuildState {
	return BuildState{Files: files.AsMap(), Arguments: arguments}
}
