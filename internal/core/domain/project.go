package domain

// Project is a unit in the monorepo: identity is its unique package name.
// Projects are immutable for the lifetime of one build.
type Project struct {
	// Name is the unique package name, used as the task name downstream.
	Name InternedString

	// Dir is the absolute project folder.
	Dir string

	// RelDir is the project folder relative to the repository root.
	RelDir string

	// Scripts maps a script name (e.g. "build", "test", "lint") to the
	// exact shell command string to run for it.
	Scripts map[string]string

	// Outputs maps a script name to the glob patterns (relative to Dir)
	// declaring the build artifacts that script produces.
	Outputs map[string][]string

	// DependsOn is the ordered list of local-dependency project names,
	// resolved into graph edges by BuildProjectGraph.
	DependsOn []InternedString

	// CyclicOK marks a project the repository configuration declares as
	// a known-cyclic exception. Selection treats its edges as ordinary
	// edges; only task-collection cycle detection is fatal.
	CyclicOK bool

	// IgnorePatterns are glob patterns (matched by filepath.Match against
	// a file's base name) the change analyzer excludes when hashing.
	IgnorePatterns []string
}
