// Package tenant maps countries to the database schemas holding their data.
package tenant

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"orders/internal/pkg/errs"

	"github.com/lib/pq"
)

var countryPattern = regexp.MustCompile(`^[a-z]{2,8}$`)

// Schema returns the schema of a country. Countries are case-insensitive
// ISO-like codes ("co", "MX").
func Schema(country string) (string, error) {
	schema := strings.ToLower(strings.TrimSpace(country))
	if !countryPattern.MatchString(schema) {
		return "", errs.NewValueIsInvalidErrorWithCause("country", fmt.Errorf("%q is not a country code", country))
	}
	return schema, nil
}

// Table returns the quoted, schema-qualified name of table for country.
func Table(country, table string) (string, error) {
	schema, err := Schema(country)
	if err != nil {
		return "", err
	}
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table), nil
}

// SearchPath returns the statement that scopes a transaction to the schema of
// country.
func SearchPath(country string) (string, error) {
	schema, err := Schema(country)
	if err != nil {
		return "", err
	}
	return "SET LOCAL search_path TO " + pq.QuoteIdentifier(schema), nil
}

// Countries is the set of countries whose schemas were migrated.
type Countries struct {
	schemas []string
}

// NewCountries normalizes and deduplicates countries, keeping their order.
func NewCountries(countries ...string) (Countries, error) {
	var (
		set     Countries
		errList []error
	)
	for _, c := range countries {
		schema, err := Schema(c)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		if !slices.Contains(set.schemas, schema) {
			set.schemas = append(set.schemas, schema)
		}
	}
	if len(errList) > 0 {
		return Countries{}, errors.Join(errList...)
	}
	return set, nil
}

// List returns the schemas of the set.
func (c Countries) List() []string {
	return slices.Clone(c.schemas)
}

// Resolve returns the schema of country when it belongs to the set.
func (c Countries) Resolve(country string) (string, error) {
	schema, err := Schema(country)
	if err != nil {
		return "", err
	}
	if !slices.Contains(c.schemas, schema) {
		return "", errs.NewValueIsInvalidErrorWithCause("country", fmt.Errorf("%q is not served", country))
	}
	return schema, nil
}
