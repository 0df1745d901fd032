// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/momeni/furucamera/pkg/adapter/config/settings"
	"github.com/momeni/furucamera/pkg/adapter/db/postgres"
)

// Database contains the database related configuration settings.
type Database struct {
	Host string `yaml:"host" env:"HOST"` // domain name or IP address
	Port int    `yaml:"port" env:"PORT"` // port number of the DBMS
	Name string `yaml:"name" env:"NAME"` // database name, like fcweb
	User string `yaml:"user" env:"USER"` // database role name

	// Password is the User role password. If it is empty, the PassFile
	// is searched for a matching password line instead.
	Password string `yaml:"password,omitempty" env:"PASSWORD"`

	// PassFile is the path of a file which conforms with the pgpass
	// format with lines like this:
	//
	//	host:port:dbname:role:password
	PassFile string `yaml:"pass-file,omitempty" env:"PASS_FILE"`

	SSLMode string `yaml:"ssl-mode,omitempty" env:"SSL_MODE"`

	MaxOpenConns    *int               `yaml:"max-open-conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    *int               `yaml:"max-idle-conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime *settings.Duration `yaml:"conn-max-lifetime" env:"CONN_MAX_LIFETIME"`
}

var sslModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// ValidateAndNormalize validates the database settings and fills the
// default port and ssl mode. At least one of the Password and PassFile
// settings must be provided.
func (d *Database) ValidateAndNormalize() error {
	switch {
	case d.Host == "":
		return errors.New("host is empty")
	case d.Name == "":
		return errors.New("name is empty")
	case d.User == "":
		return errors.New("user is empty")
	case d.Password == "" && d.PassFile == "":
		return errors.New("neither password nor pass-file is given")
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.Port < 0 || d.Port > 65535 {
		return fmt.Errorf("port %d is out of range", d.Port)
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if !sslModes[d.SSLMode] {
		return fmt.Errorf("unknown ssl-mode %q", d.SSLMode)
	}
	minConns, maxConns := 1, 1000
	if err := settings.VerifyRange(
		&d.MaxOpenConns, &minConns, &maxConns,
	); err != nil {
		return fmt.Errorf("max-open-conns: %w", err)
	}
	minIdle := 0
	if err := settings.VerifyRange(
		&d.MaxIdleConns, &minIdle, &maxConns,
	); err != nil {
		return fmt.Errorf("max-idle-conns: %w", err)
	}
	minLifetime := settings.Duration(time.Second)
	if err := settings.VerifyRange(
		&d.ConnMaxLifetime, &minLifetime, nil,
	); err != nil {
		return fmt.Errorf("conn-max-lifetime: %w", err)
	}
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings. The opts
// are applied before the pool size and lifetime settings of `d`.
func (d Database) ConnectionPool(
	ctx context.Context, opts ...postgres.PoolOption,
) (*postgres.Pool, error) {
	u, err := d.ConnectionURL()
	if err != nil {
		return nil, err
	}
	if d.MaxOpenConns != nil || d.MaxIdleConns != nil {
		maxOpen, maxIdle := 0, 0
		if d.MaxOpenConns != nil {
			maxOpen = *d.MaxOpenConns
		}
		if d.MaxIdleConns != nil {
			maxIdle = *d.MaxIdleConns
		}
		opts = append(opts, postgres.WithMaxConns(maxOpen, maxIdle))
	}
	if d.ConnMaxLifetime != nil {
		opts = append(opts, postgres.WithConnMaxLifetime(
			time.Duration(*d.ConnMaxLifetime),
		))
	}
	p, err := postgres.NewPool(ctx, u, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s@%s:%d/%s: %w",
			d.User, d.Host, d.Port, d.Name, err,
		)
	}
	return p, nil
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. Returned URL has
// the postgresql scheme. The password is taken from the Password field
// or the PassFile file. The PassFile may contain empty or `#`-commented
// lines in addition to the password specifying lines.
func (d Database) ConnectionURL() (string, error) {
	pass := d.Password
	if pass == "" {
		var err error
		if pass, err = d.readPassFile(); err != nil {
			return "", fmt.Errorf("using %q pass-file: %w", d.PassFile, err)
		}
	}
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(d.User, pass),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String(), nil
}

func (d Database) readPassFile() (string, error) {
	passLines, err := os.ReadFile(d.PassFile)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, d.User)
	for _, line := range strings.Split(string(passLines), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			if pass := line[len(prfx):]; pass != "" {
				return pass, nil
			}
		}
	}
	return "", errors.New("no matching password line")
}
