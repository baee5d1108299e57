package provider

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const claimMercure = "mercure"

// JWTProvider sign hub token with HS256
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTProvider constructor, ttl zero means token without expiry
func NewJWTProvider(secret string, ttl time.Duration) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (p *JWTProvider) sign(mercure map[string]interface{}) (string, error) {
	if len(p.secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}

	claims := jwt.MapClaims{claimMercure: mercure}
	if p.ttl > 0 {
		now := p.now()
		claims["iat"] = now.Unix()
		claims["exp"] = now.Add(p.ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// SubscribeToken token allowed to subscribe to topic only
func (p *JWTProvider) SubscribeToken(topic string) (string, error) {
	return p.sign(map[string]interface{}{"subscribe": []string{topic}})
}

// PublishToken token allowed to publish to every topic
func (p *JWTProvider) PublishToken() (string, error) {
	return p.sign(map[string]interface{}{"publish": []string{"*"}})
}

// Validate parse token and return mercure claim
func (p *JWTProvider) Validate(tokenString string) (map[string]interface{}, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, _ := token.Claims.(jwt.MapClaims)
	mercure, ok := claims[claimMercure].(map[string]interface{})
	if !ok {
		return nil, errors.New("missing mercure claim")
	}
	return mercure, nil
}
