package nosql

import (
	"database/sql"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// 默认端口
const (
	defaultMysqlPort    = 3306
	defaultPostgresPort = 5432
)

// ConnParams 连接参数
type ConnParams struct {
	Host     string            `mapstructure:"host"`
	Port     int               `mapstructure:"port"`
	User     string            `mapstructure:"user"`
	Password string            `mapstructure:"password"`
	Database string            `mapstructure:"database"`
	Params   map[string]string `mapstructure:"params"`
	// Driver 只对 pgsql 生效，可选 postgres（默认）或 pgx
	Driver string `mapstructure:"driver"`
}

// Connect 按照 backend 连接数据库
// backend 不支持时立即返回错误，不会创建连接
func Connect(backend string, params ConnParams, opts ...DBOption) (*DB, error) {
	dialect, err := GetDialect(backend)
	if err != nil {
		return nil, err
	}

	driver, dsn := DSN(dialect, params)
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := Open(sqlDB, backend, opts...)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// DSN 返回方言对应的驱动名和连接串
func DSN(dialect Dialect, params ConnParams) (string, string) {
	if dialect.Name() == (Mysql{}).Name() {
		return "mysql", mysqlDSN(params)
	}

	driver := params.Driver
	if driver == "" {
		driver = "postgres"
	}
	return driver, postgresDSN(params)
}

func mysqlDSN(params ConnParams) string {
	cfg := mysql.NewConfig()
	cfg.User = params.User
	cfg.Passwd = params.Password
	cfg.Net = "tcp"
	cfg.Addr = hostPort(params.Host, params.Port, defaultMysqlPort)
	cfg.DBName = params.Database
	if len(params.Params) > 0 {
		cfg.Params = make(map[string]string, len(params.Params))
		for k, v := range params.Params {
			cfg.Params[k] = v
		}
	}
	return cfg.FormatDSN()
}

func postgresDSN(params ConnParams) string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   hostPort(params.Host, params.Port, defaultPostgresPort),
		Path:   "/" + params.Database,
	}
	if params.User != "" {
		if params.Password != "" {
			u.User = url.UserPassword(params.User, params.Password)
		} else {
			u.User = url.User(params.User)
		}
	}
	if len(params.Params) > 0 {
		q := url.Values{}
		for k, v := range params.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func hostPort(host string, port int, defaultPort int) string {
	if host == "" {
		host = "localhost"
	}
	if port <= 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
