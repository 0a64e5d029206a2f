package adapter

import (
	"fmt"
	"regexp"
)

// identifierPattern accepts the portable subset of SQL identifiers. DDL
// builders interpolate names directly, so anything outside this set is
// rejected before it can reach a statement.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier rejects database, table and column names that could
// alter the meaning of generated DDL.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidIdentifier)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// ValidateIdentifiers validates a list of names, returning the first failure.
func ValidateIdentifiers(names ...string) error {
	for _, name := range names {
		if err := ValidateIdentifier(name); err != nil {
			return err
		}
	}
	return nil
}
