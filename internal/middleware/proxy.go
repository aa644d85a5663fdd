package middleware

import (
	"fmt"
	"net"

	"github.com/labstack/echo/v4"
)

// TrustedProxies makes c.RealIP() honor X-Forwarded-For only when the
// direct peer sits inside one of the given CIDRs. Any other peer address is
// taken at face value so clients can't spoof their IP in request logs.
func TrustedProxies(e *echo.Echo, cidrs []string) error {
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			return fmt.Errorf("parsing trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(network))
	}

	e.IPExtractor = echo.ExtractIPFromXFFHeader(opts...)
	return nil
}
