package dto

import (
	"ldb/src/core/statement"
	"ldb/src/core/usecase"
)

// ExecuteRequest is the payload for /v1/execute.
type ExecuteRequest struct {
	// Statements is a statement or an array of statements; an array runs
	// as one transaction.
	Statements statement.Batch `json:"statements"`

	// CamelCase converts result column names to camelCase.
	CamelCase bool `json:"camelCase"`
}

func (r *ExecuteRequest) ToInput() usecase.ExecuteInput {
	return usecase.ExecuteInput{Batch: r.Statements, CamelCase: r.CamelCase}
}

// BuildRequest is the payload for /v1/statements/insert and /v1/statements/update.
type BuildRequest struct {
	Table      string               `json:"table" binding:"required"`
	Fields     statement.Fields     `json:"fields"`
	Conditions statement.Conditions `json:"conditions"`

	// Execute runs the built statement as well as returning it.
	Execute bool `json:"execute"`
}

func (r *BuildRequest) ToInput() usecase.BuildInput {
	return usecase.BuildInput{
		Table:      r.Table,
		Fields:     r.Fields,
		Conditions: r.Conditions,
		Run:        r.Execute,
	}
}

// StatementResponse is a generated statement, plus its result when executed.
type StatementResponse struct {
	Text   string            `json:"text"`
	Values []any             `json:"values"`
	Result *statement.Result `json:"result,omitempty"`
}

func (StatementResponse) FromOutput(out *usecase.BuildOutput) StatementResponse {
	values := out.Statement.Values
	if values == nil {
		values = []any{}
	}
	return StatementResponse{
		Text:   out.Statement.Text,
		Values: values,
		Result: out.Result,
	}
}
