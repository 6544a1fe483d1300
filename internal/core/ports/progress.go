package ports

// Progress reports how many packages of a run are done.
//
//go:generate mockgen -source=progress.go -destination=mocks/mock_progress.go -package=mocks
type Progress interface {
	// Start announces the number of packages the run will visit.
	Start(total int)

	// Advance marks one package as done.
	Advance(label string)

	// Finish completes the report.
	Finish()
}
