// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/FabienMht/ginslog/logger"
	"github.com/FabienMht/ginslog/recovery"
	"github.com/gorilla/sessions"
	"github.com/momeni/furucamera/pkg/adapter/config/settings"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin"
	"github.com/momeni/furucamera/pkg/adapter/storage/s3"
	"github.com/momeni/furucamera/pkg/core/usecase/intakeuc"
	"github.com/momeni/furucamera/pkg/core/usecase/listingsuc"
)

// Gin contains the gin-gonic related configuration settings.
type Gin struct {
	Logger   *bool   `yaml:"logger" env:"LOGGER"`     // Whether to log requests
	Recovery *bool   `yaml:"recovery" env:"RECOVERY"` // Whether to recover panics
	Mode     string  `yaml:"mode,omitempty" env:"MODE"`
	Address  *string `yaml:"address" env:"ADDRESS"` // Listening host:port

	// MaxBodySize is the maximum accepted request body size in bytes.
	MaxBodySize *int64 `yaml:"max-body-size" env:"MAX_BODY_SIZE"`
}

// DefaultMaxBodySize fits a full batch of ten large photos.
const DefaultMaxBodySize = 64 << 20

// ValidateAndNormalize fills the missing gin settings. Logging and
// recovery are disabled, the address defaults to :8080, and the
// body size limit must be between 1KiB and 1GiB.
func (g *Gin) ValidateAndNormalize() error {
	settings.Nil2Zero(&g.Logger)
	settings.Nil2Zero(&g.Recovery)
	addr := ":8080"
	settings.OverwriteNil(&g.Address, &addr)
	if g.Mode == "" {
		g.Mode = gin.ReleaseMode
	}
	size, minSize, maxSize := int64(DefaultMaxBodySize), int64(1<<10), int64(1<<30)
	settings.OverwriteNil(&g.MaxBodySize, &size)
	if err := settings.VerifyRange(&g.MaxBodySize, &minSize, &maxSize); err != nil {
		return fmt.Errorf("max-body-size: %w", err)
	}
	return nil
}

// NewEngine creates a new Gin-Gonic engine instance based on the
// `g` settings. Request logs and recovered panics are written to the
// lg structured logger. Request bodies are limited to g.MaxBodySize.
func (g Gin) NewEngine(lg *slog.Logger) *gin.Engine {
	gin.SetMode(g.Mode)
	middlewares := make([]gin.HandlerFunc, 0, 3)
	if *g.Logger {
		middlewares = append(middlewares, logger.New(lg))
	}
	if *g.Recovery {
		middlewares = append(middlewares, recovery.New(lg))
	}
	middlewares = append(middlewares, gin.BodyLimit(*g.MaxBodySize))
	return gin.New(middlewares...)
}

// Logging contains the structured logging settings.
type Logging struct {
	Format string `yaml:"format" env:"FORMAT"` // text or json
	Level  string `yaml:"level" env:"LEVEL"`   // debug, info, warn, or error

	level slog.Level
}

// ValidateAndNormalize validates the logging settings which default to
// the text format and the info level.
func (l *Logging) ValidateAndNormalize() error {
	switch l.Format {
	case "":
		l.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q", l.Format)
	}
	if l.Level == "" {
		l.Level = "info"
	}
	if err := l.level.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("parsing level: %w", err)
	}
	return nil
}

// NewLogger creates a structured logger which writes to w.
func (l Logging) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetupLogger creates a structured logger which writes to w and makes
// it the default logger.
func (l Logging) SetupLogger(w io.Writer) *slog.Logger {
	lg := l.NewLogger(w)
	slog.SetDefault(lg)
	return lg
}

// Storage contains the S3 compatible object storage settings.
type Storage struct {
	Endpoint  string `yaml:"endpoint" env:"ENDPOINT"` // host:port
	AccessKey string `yaml:"access-key" env:"ACCESS_KEY"`
	SecretKey string `yaml:"secret-key" env:"SECRET_KEY"`
	Region    string `yaml:"region,omitempty" env:"REGION"`
	UseSSL    *bool  `yaml:"use-ssl" env:"USE_SSL"`

	// PublicBaseURL replaces the endpoint in the public image URLs.
	PublicBaseURL string `yaml:"public-base-url,omitempty" env:"PUBLIC_BASE_URL"`

	// PublicRead asks for granting anonymous read access on the
	// images bucket when it is ensured at startup time.
	PublicRead *bool `yaml:"public-read" env:"PUBLIC_READ"`
}

// ValidateAndNormalize validates the object storage settings.
func (s *Storage) ValidateAndNormalize() error {
	switch {
	case s.Endpoint == "":
		return errors.New("endpoint is empty")
	case strings.Contains(s.Endpoint, "://"):
		return fmt.Errorf("endpoint %q must not have a scheme", s.Endpoint)
	case s.AccessKey == "" || s.SecretKey == "":
		return errors.New("access-key and secret-key are required")
	}
	settings.Nil2Zero(&s.UseSSL)
	settings.Nil2Zero(&s.PublicRead)
	return nil
}

// NewStore creates an object storage client.
func (s Storage) NewStore() (*s3.Store, error) {
	return s3.New(s3.Options{
		Endpoint:      s.Endpoint,
		AccessKey:     s.AccessKey,
		SecretKey:     s.SecretKey,
		Region:        s.Region,
		UseSSL:        *s.UseSSL,
		PublicBaseURL: s.PublicBaseURL,
	})
}

// Session contains the admin session cookie settings.
type Session struct {
	// Secret authenticates the session cookies. It must have at least
	// 32 bytes.
	Secret string             `yaml:"secret" env:"SECRET"`
	Name   string             `yaml:"name,omitempty" env:"NAME"`
	MaxAge *settings.Duration `yaml:"max-age" env:"MAX_AGE"`
	Secure *bool              `yaml:"secure" env:"SECURE"`
}

// ValidateAndNormalize validates the session settings.
func (s *Session) ValidateAndNormalize() error {
	if len(s.Secret) < 32 {
		return fmt.Errorf("secret has %d bytes, at least 32 are required",
			len(s.Secret),
		)
	}
	if s.Name == "" {
		s.Name = "fcweb-admin"
	}
	maxAge := settings.Duration(12 * time.Hour)
	settings.OverwriteNil(&s.MaxAge, &maxAge)
	minAge, maxMaxAge := settings.Duration(time.Minute), settings.Duration(30*24*time.Hour)
	if err := settings.VerifyRange(&s.MaxAge, &minAge, &maxMaxAge); err != nil {
		return fmt.Errorf("max-age: %w", err)
	}
	settings.Nil2Zero(&s.Secure)
	return nil
}

// NewStore creates a cookie based sessions store.
func (s Session) NewStore() *sessions.CookieStore {
	cs := sessions.NewCookieStore([]byte(s.Secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(time.Duration(*s.MaxAge) / time.Second),
		HttpOnly: true,
		Secure:   *s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return cs
}

// Admin contains the admin console credentials.
type Admin struct {
	Username string `yaml:"username" env:"USERNAME"`

	// PasswordHash is a SCRAM-SHA-256 hash string, as printed by the
	// `fcweb hash-password` command.
	PasswordHash string `yaml:"password-hash" env:"PASSWORD_HASH"`
}

// ValidateAndNormalize validates the admin credentials. The hash string
// is parsed by the auth use case.
func (a *Admin) ValidateAndNormalize() error {
	if a.Username == "" {
		a.Username = "admin"
	}
	if !strings.HasPrefix(a.PasswordHash, "SCRAM-SHA-256$") {
		return errors.New("password-hash is not a SCRAM-SHA-256 hash")
	}
	return nil
}

// Fallback contains the local fallback listings store settings.
type Fallback struct {
	// Path of the bbolt database file. The fallback store is disabled
	// if it is empty.
	Path    string             `yaml:"path,omitempty" env:"PATH"`
	Timeout *settings.Duration `yaml:"timeout" env:"TIMEOUT"`
}

func (f *Fallback) normalize() {
	d := settings.Duration(time.Second)
	settings.OverwriteNil(&f.Timeout, &d)
}

func (f Fallback) timeout() time.Duration {
	return time.Duration(*f.Timeout)
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Listings Listings `yaml:"listings" envPrefix:"LISTINGS_"`
	Contact  Contact  `yaml:"contact" envPrefix:"CONTACT_"`
}

// Listings contains the listings and image intake use cases settings.
// Nil fields take their defaults from the use cases layer.
type Listings struct {
	Bucket       *string            `yaml:"bucket" env:"BUCKET"`
	CacheTTL     *settings.Duration `yaml:"cache-ttl" env:"CACHE_TTL"`
	MaxBatch     *int               `yaml:"max-batch" env:"MAX_BATCH"`
	Parallelism  *int               `yaml:"parallelism" env:"PARALLELISM"`
	OrphanPolicy *string            `yaml:"orphan-policy" env:"ORPHAN_POLICY"`
	DraftTTL     *settings.Duration `yaml:"draft-ttl" env:"DRAFT_TTL"`
}

// Contact contains the seller contact settings.
type Contact struct {
	// Phone is in international format, digits only.
	Phone *string `yaml:"phone" env:"PHONE"`
}

// ValidateAndNormalize checks the use cases settings boundaries.
func (u *Usecases) ValidateAndNormalize() error {
	l := &u.Listings
	if l.Bucket != nil && *l.Bucket == "" {
		return errors.New("listings bucket is empty")
	}
	minTTL, maxTTL := settings.Duration(time.Second), settings.Duration(365*24*time.Hour)
	if err := settings.VerifyRange(&l.CacheTTL, &minTTL, &maxTTL); err != nil {
		return fmt.Errorf("listings cache-ttl: %w", err)
	}
	minBatch, maxBatch := 1, 100
	if err := settings.VerifyRange(&l.MaxBatch, &minBatch, &maxBatch); err != nil {
		return fmt.Errorf("listings max-batch: %w", err)
	}
	minPar, maxPar := 1, 32
	if err := settings.VerifyRange(&l.Parallelism, &minPar, &maxPar); err != nil {
		return fmt.Errorf("listings parallelism: %w", err)
	}
	if l.OrphanPolicy != nil {
		if _, err := intakeuc.ParseOrphanPolicy(*l.OrphanPolicy); err != nil {
			return fmt.Errorf("listings orphan-policy: %w", err)
		}
	}
	if err := settings.VerifyRange(&l.DraftTTL, &minTTL, nil); err != nil {
		return fmt.Errorf("listings draft-ttl: %w", err)
	}
	if p := u.Contact.Phone; p != nil {
		*p = strings.TrimPrefix(strings.TrimSpace(*p), "+")
		if *p == "" {
			return errors.New("contact phone is empty")
		}
		for _, r := range *p {
			if r < '0' || r > '9' {
				return fmt.Errorf("contact phone %q has a non-digit", *p)
			}
		}
	}
	return nil
}

func (u Usecases) listingsOptions() []listingsuc.Option {
	var opts []listingsuc.Option
	l := u.Listings
	if l.Bucket != nil {
		opts = append(opts, listingsuc.WithBucket(*l.Bucket))
	}
	if l.CacheTTL != nil {
		opts = append(opts, listingsuc.WithCacheTTL(time.Duration(*l.CacheTTL)))
	}
	if u.Contact.Phone != nil {
		opts = append(opts, listingsuc.WithContactPhone(*u.Contact.Phone))
	}
	return opts
}

func (u Usecases) intakeOptions() ([]intakeuc.Option, error) {
	var opts []intakeuc.Option
	l := u.Listings
	if l.MaxBatch != nil {
		opts = append(opts, intakeuc.WithMaxBatch(*l.MaxBatch))
	}
	if l.Parallelism != nil {
		opts = append(opts, intakeuc.WithParallelism(*l.Parallelism))
	}
	if l.OrphanPolicy != nil {
		p, err := intakeuc.ParseOrphanPolicy(*l.OrphanPolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, intakeuc.WithOrphanPolicy(p))
	}
	if l.DraftTTL != nil {
		opts = append(opts, intakeuc.WithDraftTTL(time.Duration(*l.DraftTTL)))
	}
	return opts, nil
}
