package services

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"trustly/internal/models/request_models"
	"trustly/pkg/utils"
)

const maxCSVRows = 1000

// ParseCustomerCSV reads name,email rows. The first row is a header. Rows with an empty name or an
// email without "@" are dropped; utils.ErrNoValidCustomers is returned when nothing is left.
func ParseCustomerCSV(r io.Reader) ([]request_models.CustomerInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var customers []request_models.CustomerInput
	for line := 0; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, errors.Wrap(err, "read csv")
		}
		if line == 0 {
			continue
		}
		if customer, ok := customerFromRecord(record); ok {
			customers = append(customers, customer)
			if len(customers) > maxCSVRows {
				return nil, utils.NewValidationError("CSV files are limited to 1000 customers")
			}
		}
	}

	if len(customers) == 0 {
		return nil, utils.ErrNoValidCustomers
	}
	return customers, nil
}

func customerFromRecord(record []string) (request_models.CustomerInput, bool) {
	if len(record) < 2 {
		return request_models.CustomerInput{}, false
	}
	return validCustomer(request_models.CustomerInput{Name: record[0], Email: record[1]})
}

// validCustomer trims both fields and reports whether the customer can be emailed.
func validCustomer(c request_models.CustomerInput) (request_models.CustomerInput, bool) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" || !strings.Contains(c.Email, "@") {
		return c, false
	}
	return c, true
}
