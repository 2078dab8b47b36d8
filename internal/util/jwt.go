package util

import (
	"icehc_portal/internal/model"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	MemberID uint               `json:"member_id"`
	Role     model.MemberRole   `json:"role"`
	Status   model.MemberStatus `json:"status"`
	Email    string             `json:"email"`
	jwt.RegisteredClaims
}

func GenerateJWT(member *model.Member, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		MemberID: member.ID,
		Role:     member.Role,
		Status:   member.Status,
		Email:    member.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, err
}

func GetMemberFromContext(c *gin.Context) *Claims {
	member, exists := c.Get("member")
	if !exists {
		return nil
	}
	claims, ok := member.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
