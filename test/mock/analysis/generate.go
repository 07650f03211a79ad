// Package mock_analysis holds generated mocks for package analysis's
// interfaces.
package mock_analysis

//go:generate -command mockgen go run go.uber.org/mock/mockgen -destination=./mocks.go github.com/trustify-project/analysis-engine/analysis
//go:generate mockgen Backend
