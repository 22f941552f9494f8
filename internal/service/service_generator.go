package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/lightningsoon/KeyMinder/internal/crypto"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/validators"
	"github.com/lightningsoon/KeyMinder/models"
	"github.com/sethvargo/go-diceware/diceware"
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberChars    = "0123456789"
	symbolChars    = "!@#$%^&*()_+~`|}{[]:;?><,./-="

	defaultSeparator = "-"
)

type generatorService struct {
	validator validators.Validator
	logger    *logger.Logger
}

func NewGeneratorService(validator validators.Validator, logger *logger.Logger) GeneratorService {
	return &generatorService{
		validator: validator,
		logger:    logger,
	}
}

// Password returns a random password drawn uniformly from the enabled
// character classes. With every class disabled lowercase letters and digits
// are used.
func (g *generatorService) Password(ctx context.Context, options models.GeneratorOptions) (string, error) {
	if err := g.validator.Validate(ctx, options); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	charset := charsetFor(options)
	limit := big.NewInt(int64(len(charset)))

	var b strings.Builder
	b.Grow(options.Length)
	for range options.Length {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("%w: %w", crypto.ErrCryptoBackendUnavailable, err)
		}
		b.WriteByte(charset[n.Int64()])
	}

	return b.String(), nil
}

// Passphrase returns options.Words diceware words joined by the separator.
func (g *generatorService) Passphrase(ctx context.Context, options models.PassphraseOptions) (string, error) {
	if err := g.validator.Validate(ctx, options); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	words, err := diceware.Generate(options.Words)
	if err != nil {
		return "", fmt.Errorf("%w: %w", crypto.ErrCryptoBackendUnavailable, err)
	}

	separator := options.Separator
	if separator == "" {
		separator = defaultSeparator
	}
	return strings.Join(words, separator), nil
}

func charsetFor(options models.GeneratorOptions) string {
	var charset string
	if options.IncludeLowercase {
		charset += lowercaseChars
	}
	if options.IncludeUppercase {
		charset += uppercaseChars
	}
	if options.IncludeNumbers {
		charset += numberChars
	}
	if options.IncludeSymbols {
		charset += symbolChars
	}
	if charset == "" {
		charset = lowercaseChars + numberChars
	}
	return charset
}
