// Package ids issues record identifiers.
package ids

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// StrategyBase36 selects timestamp plus random suffix identifiers.
	StrategyBase36 = "base36"
	// StrategyUUID selects UUIDv7 identifiers.
	StrategyUUID = "uuid"

	suffixLength = 5
	base36Digits = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// ErrUnknownStrategy indicates that no provider exists for the configured strategy.
var ErrUnknownStrategy = errors.New("ids: unknown strategy")

// Provider issues a new identifier on every call.
type Provider interface {
	NewID() (string, error)
}

// New returns the provider registered for strategy.
func New(strategy string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case StrategyBase36, "":
		return NewBase36Provider(nil, nil), nil
	case StrategyUUID:
		return NewUUIDProvider(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// Base36Provider builds identifiers of the form <unix-millis base36>-<5 random base36 chars>.
// They are unique enough for a single local writer and are not cryptographically secure.
type Base36Provider struct {
	clock  func() time.Time
	random func(n int) int
}

// NewBase36Provider constructs a provider. Nil arguments fall back to time.Now and math/rand/v2.
func NewBase36Provider(clock func() time.Time, random func(n int) int) *Base36Provider {
	if clock == nil {
		clock = time.Now
	}
	if random == nil {
		random = rand.IntN
	}
	return &Base36Provider{clock: clock, random: random}
}

func (p *Base36Provider) NewID() (string, error) {
	var builder strings.Builder
	builder.WriteString(strconv.FormatInt(p.clock().UnixMilli(), 36))
	builder.WriteByte('-')
	for range suffixLength {
		builder.WriteByte(base36Digits[p.random(len(base36Digits))])
	}
	return builder.String(), nil
}

type uuidProvider struct{}

// NewUUIDProvider constructs a Provider that issues UUIDv7 identifiers.
func NewUUIDProvider() Provider {
	return &uuidProvider{}
}

func (p *uuidProvider) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return value.String(), nil
}
