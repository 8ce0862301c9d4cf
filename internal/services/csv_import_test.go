package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trustly/internal/models/request_models"
	"trustly/pkg/utils"
)

func TestParseCustomerCSV(t *testing.T) {
	input := "Name,Email\n" +
		"Ann,ann@example.com\n" +
		"  Bob  ,  bob@example.com  \n" +
		"NoEmail,nope\n" +
		",ghost@example.com\n" +
		"OnlyName\n" +
		"Cat,cat@example.com,extra\n"

	customers, err := ParseCustomerCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []request_models.CustomerInput{
		{Name: "Ann", Email: "ann@example.com"},
		{Name: "Bob", Email: "bob@example.com"},
		{Name: "Cat", Email: "cat@example.com"},
	}, customers)
}

func TestParseCustomerCSVHeaderOnly(t *testing.T) {
	_, err := ParseCustomerCSV(strings.NewReader("name,email\n"))
	assert.ErrorIs(t, err, utils.ErrNoValidCustomers)

	_, err = ParseCustomerCSV(strings.NewReader("name,email\nBob,bob-at-example\n"))
	assert.ErrorIs(t, err, utils.ErrNoValidCustomers)
}

func TestParseCustomerCSVRowLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("name,email\n")
	for i := 0; i <= maxCSVRows; i++ {
		b.WriteString("Ann,ann@example.com\n")
	}

	_, err := ParseCustomerCSV(strings.NewReader(b.String()))
	_, ok := utils.IsValidationError(err)
	assert.True(t, ok)
}
