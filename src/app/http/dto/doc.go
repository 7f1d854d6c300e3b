// Package dto contains Data Transfer Objects for HTTP requests and responses.
//
// Request bodies decode straight into the statement package's types, which
// carry their own JSON rules: statements may be a string, an object or an
// array, fields keep their key order and conditions accept the
// {column: value} shorthand.
//
// Naming convention:
//   - Request types: <Action>Request (e.g., ExecuteRequest)
//   - Response types: <Resource>Response (e.g., StatementResponse)
package dto
