// Package mock_externalref holds generated mocks for package externalref's
// interfaces.
package mock_externalref

//go:generate -command mockgen go run go.uber.org/mock/mockgen -destination=./mocks.go github.com/trustify-project/analysis-engine/externalref
//go:generate mockgen Store
