// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

// Package otp authenticates restaurant owners with SMS one-time passcodes.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/gastrocatalogo/gastro-server/pkg/conf"
	"github.com/gastrocatalogo/gastro-server/pkg/metrics"
	"github.com/gastrocatalogo/gastro-server/pkg/stor"
)

var (
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrRateLimited      = errors.New("too many passcode requests, retry later")
	ErrNoPendingCode    = errors.New("no pending passcode for this phone number")
	ErrCodeExpired      = errors.New("the passcode has expired")
	ErrTooManyAttempts  = errors.New("too many attempts, request a new passcode")
	ErrCodeMismatch     = errors.New("incorrect passcode")
	ErrSMSDisabled      = errors.New("sms passcodes are not enabled")
	ErrIdentityDisabled = errors.New("identity tokens are not enabled")
	ErrNoPhoneClaim     = errors.New("the identity token carries no phone number")
	ErrSendFailed       = errors.New("failed sending the passcode")
)

// Challenge is returned when a passcode has been sent.
type Challenge struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service issues and verifies passcodes, and logs owners in.
type Service struct {
	cfg      conf.OTP
	store    stor.Store
	sender   Sender
	identity IdentityVerifier

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	verifyMu sync.Mutex

	now func() time.Time
}

// NewService returns a passcode service. A nil sender disables SMS passcodes.
func NewService(cfg conf.OTP, st stor.Store, sender Sender) *Service {
	return &Service{
		cfg:      cfg,
		store:    st,
		sender:   sender,
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// WithIdentityVerifier enables the login with identity tokens (Firebase Phone Auth).
func (s *Service) WithIdentityVerifier(v IdentityVerifier) *Service {
	s.identity = v
	return s
}

// SMSEnabled indicates if the server sends passcodes itself.
func (s *Service) SMSEnabled() bool {
	return s.sender != nil
}

// IdentityEnabled indicates if identity tokens are accepted.
func (s *Service) IdentityEnabled() bool {
	return s.identity != nil
}

// limiter returns the rate limiter of a phone number
func (s *Service) limiter(phone string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[phone]
	if !ok {
		l = rate.NewLimiter(rate.Every(s.cfg.ResendInterval), s.cfg.Burst)
		s.limiters[phone] = l
	}
	return l
}

// generateCode returns a random numeric code of the configured length
func (s *Service) generateCode() (string, error) {
	if s.cfg.FixedCode != "" {
		return s.cfg.FixedCode, nil
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(s.cfg.Length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", s.cfg.Length, n), nil
}

// Request generates a passcode for a phone number, stores its hash and sends it.
// A new passcode invalidates the previous ones.
func (s *Service) Request(ctx context.Context, rawPhone string) (*Challenge, error) {
	if s.sender == nil {
		return nil, ErrSMSDisabled
	}
	phone, err := NormalizePhone(rawPhone, s.cfg.DefaultCountry)
	if err != nil {
		return nil, err
	}
	if !s.limiter(phone).Allow() {
		metrics.OTP.WithLabelValues("rate_limited").Inc()
		return nil, ErrRateLimited
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	passcode := &stor.Passcode{
		Phone:     phone,
		CodeHash:  string(hash),
		ExpiresAt: s.now().Add(s.cfg.TTL),
	}
	if err := s.store.Passcode().Create(passcode); err != nil {
		return nil, err
	}

	if err := s.sender.Send(ctx, phone, code); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	metrics.OTP.WithLabelValues("sent").Inc()
	log.Infof("Passcode sent to %s", phone)

	return &Challenge{Phone: phone, ExpiresAt: passcode.ExpiresAt}, nil
}

// Verify checks a passcode and returns the owner of the phone number, created on first login.
// A passcode can be used only once.
func (s *Service) Verify(ctx context.Context, rawPhone, code string) (*stor.Owner, error) {
	phone, err := NormalizePhone(rawPhone, s.cfg.DefaultCountry)
	if err != nil {
		return nil, err
	}

	// serializes the check and consumption of passcodes
	s.verifyMu.Lock()
	defer s.verifyMu.Unlock()

	passcode, err := s.store.Passcode().GetPending(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoPendingCode
	}
	if err != nil {
		return nil, err
	}
	if s.now().After(passcode.ExpiresAt) {
		return nil, ErrCodeExpired
	}
	if passcode.Attempts >= s.cfg.MaxAttempts {
		return nil, ErrTooManyAttempts
	}

	passcode.Attempts++
	if bcrypt.CompareHashAndPassword([]byte(passcode.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		if err := s.store.Passcode().Update(passcode); err != nil {
			return nil, err
		}
		metrics.OTP.WithLabelValues("rejected").Inc()
		return nil, ErrCodeMismatch
	}

	now := s.now()
	passcode.ConsumedAt = &now
	if err := s.store.Passcode().Update(passcode); err != nil {
		return nil, err
	}
	metrics.OTP.WithLabelValues("verified").Inc()

	return s.login(phone, "")
}

// LoginWithIdentity verifies an identity token and returns the owner of its phone number.
func (s *Service) LoginWithIdentity(ctx context.Context, idToken string) (*stor.Owner, error) {
	if s.identity == nil {
		return nil, ErrIdentityDisabled
	}
	identity, err := s.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		metrics.OTP.WithLabelValues("rejected").Inc()
		return nil, err
	}
	phone, err := NormalizePhone(identity.Phone, s.cfg.DefaultCountry)
	if err != nil {
		return nil, err
	}
	metrics.OTP.WithLabelValues("verified").Inc()
	return s.login(phone, identity.UID)
}

// login finds or creates the owner and records the login
func (s *Service) login(phone, uid string) (*stor.Owner, error) {
	owner, err := s.store.Owner().FindOrCreate(phone)
	if err != nil {
		return nil, err
	}
	now := s.now()
	owner.LastLogin = &now
	if uid != "" {
		owner.FirebaseUID = uid
	}
	if err := s.store.Owner().Update(owner); err != nil {
		return nil, err
	}
	log.Infof("Owner %s logged in", owner.UUID)
	return owner, nil
}

// Purge deletes expired passcodes and forgets idle rate limiters.
func (s *Service) Purge() (int64, error) {
	s.mu.Lock()
	for phone, l := range s.limiters {
		if l.Tokens() >= float64(l.Burst()) {
			delete(s.limiters, phone)
		}
	}
	s.mu.Unlock()

	return s.store.Passcode().PurgeExpired(s.now())
}

// RunPurge calls Purge periodically until the context is done.
func (s *Service) RunPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Purge()
			if err != nil {
				log.Errorf("Failed to purge expired passcodes: %v", err)
				continue
			}
			if n > 0 {
				log.Debugf("%d expired passcodes purged", n)
			}
		}
	}
}
