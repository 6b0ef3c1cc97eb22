package ports

// ProgressTracker receives per-item progress of pipeline stages.
// A false return from any method asks the pipeline to stop.
//
//go:generate mockgen -source=progress.go -destination=mocks/mock_progress.go -package=mocks
type ProgressTracker interface {
	StartStep(title string, count int)
	Update(info string) bool
	EndStep() bool
}
