package handler

import (
	"booking-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
)

// currentUser returns the authenticated claims set by the auth middleware.
func currentUser(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	return claims, ok
}

// partnerID returns the solution partner scope of the authenticated user.
// Admins have no partner scope and see everything.
func partnerID(claims *jwtutil.UserClaims) string {
	if claims.SolutionPartnerID != nil {
		return *claims.SolutionPartnerID
	}
	return ""
}
