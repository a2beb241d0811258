package ports

// Verifier defines the interface for verifying declared output paths
// exist on disk after a task's command has run.
//
//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_verifier.go -package=mocks -source=verifier.go
type Verifier interface {
	// VerifyOutputs checks that every output path exists under root.
	VerifyOutputs(root string, outputs []string) (bool, error)
}
