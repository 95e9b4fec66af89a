package sqlstore

import (
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Conn describes where the database lives.
type Conn struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	// SSLMode is passed to PostgreSQL as sslmode; MySQL ignores it.
	SSLMode string
}

// DSN renders c as a connection string for dialect. A zero port selects the
// dialect's default.
func DSN(dialect Dialect, c Conn) string {
	switch dialect {
	case MySQL:
		port := c.Port
		if port == 0 {
			port = 3306
		}
		cfg := mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(port))
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.DBName = c.Database
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		cfg.Params = map[string]string{"time_zone": "'+00:00'"}
		return cfg.FormatDSN()
	default:
		port := c.Port
		if port == 0 {
			port = 5432
		}
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(c.Host, strconv.Itoa(port)),
			Path:   "/" + c.Database,
		}
		if c.User != "" {
			u.User = url.UserPassword(c.User, c.Password)
		}
		q := url.Values{}
		if c.SSLMode != "" {
			q.Set("sslmode", c.SSLMode)
		}
		q.Set("timezone", "UTC")
		u.RawQuery = q.Encode()
		return u.String()
	}
}
