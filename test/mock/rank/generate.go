// Package mock_rank holds generated mocks for package rank's interfaces.
package mock_rank

//go:generate -command mockgen go run go.uber.org/mock/mockgen -destination=./mocks.go github.com/trustify-project/analysis-engine/rank
//go:generate mockgen Store
