package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mess-web/internal/domain"
)

// Claims access token 里携带的用户快照。网关只解码，不回源就能知道
// 当前用户是谁、什么角色、有没有被踢。
type Claims struct {
	UID      string      `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	IsKicked bool        `json:"isKicked"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	Leeway time.Duration
	TTL    time.Duration
}

// Issue 本地签发。生产 token 由业务后端签，这里主要给测试和本地联调用。
func (j *JWTer) Issue(u domain.User) (string, error) {
	now := time.Now()
	ttl := j.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	claims := Claims{
		UID:      u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		IsKicked: u.IsKicked,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	leeway := j.Leeway
	if leeway <= 0 {
		leeway = 60 * time.Second
	}
	opts := []jwt.ParserOption{jwt.WithLeeway(leeway)}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}
	if !c.Role.IsValid() {
		return nil, fmt.Errorf("unknown role %q", c.Role)
	}
	return c, nil
}
