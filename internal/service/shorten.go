package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"net/url"
	"strings"

	"github.com/marelvy/linkpulse/internal/encoder"
	"github.com/marelvy/linkpulse/internal/model"
	"github.com/marelvy/linkpulse/internal/repository"
)

// CreateShortURL registers a new alias for ownerID. Without a custom
// alias a random base62 code is generated. The fresh mapping is
// pre-warmed into the URL cache so the first redirect already hits it;
// a cache failure there is logged and swallowed like everywhere else.
func (s *Service) CreateShortURL(ctx context.Context, ownerID string, req model.CreateAliasRequest) (*model.CreateAliasResponse, error) {
	if err := validateLongURL(req.URL); err != nil {
		return nil, err
	}

	alias := req.CustomAlias
	if alias != "" {
		if err := validateAlias(alias); err != nil {
			return nil, err
		}
	} else {
		var err error
		alias, err = randomCode()
		if err != nil {
			return nil, err
		}
	}

	rec := &model.Alias{
		Alias:     alias,
		LongURL:   req.URL,
		OwnerID:   ownerID,
		Topic:     req.Topic,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateAlias) {
			return nil, ErrAliasExists
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, urlCacheKey(alias), rec.LongURL, urlCacheTTL); err != nil {
			s.log.Warn("url cache pre-warm failed", "alias", alias, "error", err.Error())
		}
	}

	return &model.CreateAliasResponse{
		ShortURL:  s.baseURL + "/" + alias,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// randomCode base62-encodes 64 bits of crypto randomness, giving codes
// of up to 11 characters.
func randomCode() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return encoder.Encode(binary.BigEndian.Uint64(buf[:])), nil
}

// ============ VALIDATION HELPERS ============

func validateLongURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return ErrEmptyURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ErrInvalidURL
	}

	// Must have scheme (http/https) and host
	if parsed.Scheme == "" || parsed.Host == "" {
		return ErrInvalidURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidURL
	}

	return nil
}

func validateAlias(alias string) error {
	if len(alias) < 3 || len(alias) > 20 {
		return ErrInvalidAlias
	}

	// Only allow alphanumeric, hyphens, underscores
	for _, char := range alias {
		if !isValidAliasChar(char) {
			return ErrInvalidAlias
		}
	}

	return nil
}

func isValidAliasChar(char rune) bool {
	return (char >= 'a' && char <= 'z') ||
		(char >= 'A' && char <= 'Z') ||
		(char >= '0' && char <= '9') ||
		char == '-' || char == '_'
}
