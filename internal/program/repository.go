package program

import "context"

// ExercisePage is one page of exercise lookup results.
type ExercisePage struct {
	Items      []Exercise `json:"items"`
	TotalCount int        `json:"totalCount"`
}

// Source loads program aggregates.
type Source interface {
	// LoadProgram returns the full aggregate for id, or ErrProgramNotFound.
	LoadProgram(ctx context.Context, id string) (*Program, error)
}

// ExerciseLookup searches the exercise catalog.
type ExerciseLookup interface {
	// SearchExercises returns up to limit exercises whose name contains term.
	// An empty term lists the catalog. Curated exercises come first.
	SearchExercises(ctx context.Context, term string, limit int) (ExercisePage, error)

	// ExercisesByID resolves catalog entries for the given ids. Unknown ids
	// are omitted from the result.
	ExercisesByID(ctx context.Context, ids []string) (map[string]Exercise, error)
}

// MutationSink persists committed grid changes.
type MutationSink interface {
	Apply(ctx context.Context, m Mutation) error
}

// Repository is the full storage surface used by the CLI and the server.
type Repository interface {
	Source
	ExerciseLookup
	MutationSink

	// ListPrograms returns a summary of every stored program.
	ListPrograms(ctx context.Context) ([]Summary, error)

	// SaveProgram inserts or replaces a whole program aggregate.
	SaveProgram(ctx context.Context, p *Program) error

	// SaveExercises upserts catalog entries.
	SaveExercises(ctx context.Context, exercises []Exercise) error

	// Close releases any resources held by the repository.
	Close() error
}
