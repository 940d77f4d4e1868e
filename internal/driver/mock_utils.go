package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ExecutedQuery is a query seen by MockDriver.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// MockDriver records queries and answers them with MockResult.
type MockDriver struct {
	Queries    []ExecutedQuery
	MockResult neo4j.EagerResult
	Err        error
	// FailOn makes only queries equal to it fail with Err.
	FailOn string
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.Queries = append(m.Queries, ExecutedQuery{Query: query, Params: params})
	if m.Err != nil && (m.FailOn == "" || m.FailOn == query) {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}
