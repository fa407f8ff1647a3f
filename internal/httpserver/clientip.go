package httpserver

import (
	"fmt"
	"net"

	"github.com/labstack/echo/v4"
)

// IPExtractor decides what c.RealIP returns. With no trusted proxies the
// client IP is the TCP peer and X-Forwarded-For is ignored. Otherwise the
// header is read only for requests arriving from one of the trusted CIDRs.
func IPExtractor(trusted []string) (echo.IPExtractor, error) {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trusted {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}
