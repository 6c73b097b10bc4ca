// Package testutil holds the shared fixtures for tests: a migrated in-memory database,
// fluent row builders, fund data and market client mocks, a static trading calendar and
// HTTP request helpers.
//
// Assertion style follows the layer under test. Tests that build database state through
// this package (internal/service, internal/repository, cmd/fundctl) use
// github.com/stretchr/testify, with require for setup and preconditions and assert for
// outcomes. Handler, middleware, router and the self-contained packages (calendar, cache,
// config, market, validation, logger, metrics, database) use plain testing with t.Run
// tables, t.Errorf for checks and t.Fatalf when later checks cannot run.
package testutil
