package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ldb/src/core/casing"
	"ldb/src/core/domain"
	"ldb/src/core/ports"
	"ldb/src/core/statement"
)

// QueryService runs caller statements and builds INSERT/UPDATE statements.
type QueryService struct {
	db  ports.Database
	log *slog.Logger
}

func NewQueryService(db ports.Database, log *slog.Logger) *QueryService {
	return &QueryService{db: db, log: log}
}

// ExecuteInput is one request to run statements.
type ExecuteInput struct {
	Batch statement.Batch

	// CamelCase converts result column names to camelCase.
	CamelCase bool
}

// Execute validates and runs the batch. A sequence runs as one transaction.
func (s *QueryService) Execute(ctx context.Context, in ExecuteInput) ([]statement.Result, error) {
	stmts := in.Batch.Statements()
	if !in.Batch.IsSequence() && len(stmts) == 0 {
		return nil, domain.NewValidationError("statements", "statements is required")
	}
	for i, st := range stmts {
		if st.Text == "" {
			field := "statements"
			if in.Batch.IsSequence() {
				field = fmt.Sprintf("statements[%d]", i)
			}
			return nil, domain.NewValidationError(field, "statement text is empty")
		}
	}

	results, err := s.db.Execute(ctx, in.Batch)
	if err != nil {
		s.log.Warn("statement execution failed",
			"statements", len(stmts),
			"transaction", in.Batch.IsSequence(),
			"error", err,
		)
		return nil, err
	}

	if in.CamelCase {
		for i := range results {
			results[i] = camelResult(results[i])
		}
	}
	return results, nil
}

func camelResult(r statement.Result) statement.Result {
	cols := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		cols[i] = casing.ToCamelCase(c)
	}
	r.Columns = cols
	r.Rows = casing.CamelRows(r.Rows)
	return r
}

// BuildInput describes a statement to generate.
type BuildInput struct {
	Table      string
	Fields     statement.Fields
	Conditions []statement.Condition

	// Run executes the built statement on the pool as well.
	Run bool
}

// BuildOutput is a generated statement and, when run, its result.
type BuildOutput struct {
	Statement statement.Statement
	Result    *statement.Result
}

// BuildInsert generates an INSERT for in.Table. Conditions are ignored.
func (s *QueryService) BuildInsert(ctx context.Context, in BuildInput) (*BuildOutput, error) {
	if err := validateBuild(in, false); err != nil {
		return nil, err
	}
	st, ok := statement.BuildInsert(in.Table, in.Fields)
	if !ok {
		return nil, domain.NewValidationError("fields", "no fields to insert")
	}
	return s.finish(ctx, st, in.Run)
}

// BuildUpdate generates an UPDATE for in.Table.
func (s *QueryService) BuildUpdate(ctx context.Context, in BuildInput) (*BuildOutput, error) {
	if err := validateBuild(in, true); err != nil {
		return nil, err
	}
	st, ok := statement.BuildUpdate(in.Table, in.Fields, in.Conditions...)
	if !ok {
		return nil, domain.NewValidationError("fields", "no fields to update")
	}
	return s.finish(ctx, st, in.Run)
}

func (s *QueryService) finish(ctx context.Context, st statement.Statement, run bool) (*BuildOutput, error) {
	out := &BuildOutput{Statement: st}
	if !run {
		return out, nil
	}
	results, err := s.db.Execute(ctx, statement.Single(st))
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		out.Result = &results[0]
	}
	return out, nil
}

// validateBuild rejects names that cannot be spliced into statement text.
// Values are always bound as parameters and need no checking.
func validateBuild(in BuildInput, withConditions bool) error {
	if !statement.ValidIdentifier(in.Table) {
		return domain.NewValidationError("table", fmt.Sprintf("invalid table name %q", in.Table))
	}
	for _, f := range in.Fields {
		if !statement.ValidIdentifier(casing.ToSnakeCase(f.Key)) {
			return domain.NewValidationError("fields", fmt.Sprintf("invalid column name %q", f.Key))
		}
	}
	if !withConditions {
		return nil
	}
	for _, c := range in.Conditions {
		if c == nil {
			continue
		}
		if name := statement.FieldOf(c); !statement.ValidIdentifier(casing.ToSnakeCase(name)) {
			return domain.NewValidationError("conditions", fmt.Sprintf("invalid column name %q", name))
		}
	}
	return nil
}
