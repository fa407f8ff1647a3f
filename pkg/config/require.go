package config

import (
	"errors"
	"fmt"
	"net"
	"slices"
)

// Validate reports every problem with values the service cannot start
// without. drivers lists the accepted DB_DRIVER values.
func (c Config) Validate(drivers ...string) error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("missing required env DATABASE_URL"))
	}
	if !slices.Contains(drivers, c.DBDriver) {
		errs = append(errs, fmt.Errorf("env DB_DRIVER=%q must be one of %v", c.DBDriver, drivers))
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errs = append(errs, fmt.Errorf("env TRUSTED_PROXIES: %w", err))
		}
	}
	return errors.Join(errs...)
}
