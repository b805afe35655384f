package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultIssuer значение claim iss по умолчанию
const DefaultIssuer = "tasktracker"

// ErrInvalidToken возвращается для любого токена, не прошедшего проверку
var ErrInvalidToken = errors.New("invalid token")

// Identity содержимое claim sub
type Identity struct {
	Username string `json:"username"`
}

// Claims представляет JWT claims: {"sub": {"username": ...}} и стандартные iat/nbf/exp/iss.
// Поле Identity перекрывает строковый Subject из RegisteredClaims при (де)сериализации.
type Claims struct {
	Identity Identity `json:"sub"`
	jwt.RegisteredClaims
}

// Config содержит конфигурацию кодека
type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// Codec подписывает и проверяет identity токены (HS256)
type Codec struct {
	now    func() time.Time
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewCodec создает кодек. secret не может быть пустым.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("token secret cannot be empty")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TTL)
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}

	return &Codec{
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Sign создает подписанный токен для username
func (c *Codec) Sign(username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("username cannot be empty")
	}

	now := c.now()
	claims := Claims{
		Identity: Identity{Username: username},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    c.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify проверяет подпись, срок действия и издателя токена.
// Все отказы оборачивают ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Identity.Username == "" {
		return nil, fmt.Errorf("%w: missing username", ErrInvalidToken)
	}

	return claims, nil
}

// TTL возвращает время жизни выпускаемых токенов
func (c *Codec) TTL() time.Duration {
	return c.ttl
}
