package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangtd/jobharvest/internal/record"
)

func TestParseSalaryCompetitive(t *testing.T) {
	t.Parallel()

	info := ParseSalary("You'll love it", false)
	require.NotNil(t, info)
	assert.Equal(t, record.SalaryCompetitive, info.Kind)
	assert.Equal(t, "You'll love it", info.Raw)
}

func TestParseSalaryUpToWinsOverSignIn(t *testing.T) {
	t.Parallel()

	// Both the bound and the login hint are present; the bound wins because
	// it appears earlier in the cascade.
	info := ParseSalary("Up to $2200, sign in to view salary", false)
	require.NotNil(t, info)
	assert.Equal(t, record.SalaryUpTo, info.Kind)
	require.NotNil(t, info.Max)
	assert.Equal(t, 2200.0, *info.Max)
	assert.Nil(t, info.Min)
	assert.Equal(t, "USD", info.Currency)
}

func TestParseSalaryLoginRequired(t *testing.T) {
	t.Parallel()

	info := ParseSalary("Sign in to view salary", false)
	require.NotNil(t, info)
	assert.Equal(t, record.SalaryLoginRequired, info.Kind)

	// A structural sign-in element classifies even when the text says
	// nothing useful.
	info = ParseSalary("********", true)
	require.NotNil(t, info)
	assert.Equal(t, record.SalaryLoginRequired, info.Kind)
}

func TestParseSalaryUSDRange(t *testing.T) {
	t.Parallel()

	info := ParseSalary("$1500 - $2000", false)
	require.NotNil(t, info)
	assert.Equal(t, record.SalaryRange, info.Kind)
	require.NotNil(t, info.Min)
	require.NotNil(t, info.Max)
	assert.Equal(t, 1500.0, *info.Min)
	assert.Equal(t, 2000.0, *info.Max)
	assert.Equal(t, "USD", info.Currency)
}

func TestParseSalaryVNDRange(t *testing.T) {
	t.Parallel()

	// No dollar sign, so the bare-dash USD rule must not swallow this
	// before the VND rule sees the unit word.
	info := ParseSalary("15-20 triệu", false)
	require.NotNil(t, info)
	assert.Equal(t, record.SalaryRange, info.Kind)
	require.NotNil(t, info.Min)
	require.NotNil(t, info.Max)
	assert.Equal(t, 15_000_000.0, *info.Min)
	assert.Equal(t, 20_000_000.0, *info.Max)
	assert.Equal(t, "VND", info.Currency)
	assert.Equal(t, "15-20 triệu", info.Raw)
}

func TestParseSalaryFixed(t *testing.T) {
	t.Parallel()

	info := ParseSalary("$1,500", false)
	require.NotNil(t, info)
	assert.Equal(t, record.SalaryFixed, info.Kind)
	require.NotNil(t, info.Min)
	assert.Equal(t, 1500.0, *info.Min)
	assert.Equal(t, *info.Min, *info.Max)
	assert.Equal(t, "USD", info.Currency)

	info = ParseSalary("25000000 VND", false)
	require.NotNil(t, info)
	assert.Equal(t, record.SalaryFixed, info.Kind)
	assert.Equal(t, "VND", info.Currency)
}

func TestParseSalaryDescriptive(t *testing.T) {
	t.Parallel()

	info := ParseSalary("Thoả thuận", false)
	require.NotNil(t, info)
	assert.Equal(t, record.SalaryDescriptive, info.Kind)
	assert.Equal(t, "Thoả thuận", info.Raw)
}

func TestParseSalaryNone(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ParseSalary("", false))
	assert.Nil(t, ParseSalary("n/a", false))
}
