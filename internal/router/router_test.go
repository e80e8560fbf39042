package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func staffContext(t *testing.T, isStaff bool) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	token := jwt.New(jwt.SigningMethodHS256)
	token.Claims = jwt.MapClaims{
		"user_id":  float64(1),
		"username": "alice",
		"is_staff": isStaff,
	}
	c.Set("user", token)
	return c
}

func TestRequireStaff(t *testing.T) {
	next := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	t.Run("staff caller passes", func(t *testing.T) {
		c := staffContext(t, true)
		assert.NoError(t, RequireStaff(next)(c))
	})

	t.Run("non-staff caller is rejected", func(t *testing.T) {
		c := staffContext(t, false)
		err := RequireStaff(next)(c)

		var httpErr *echo.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := RequireStaff(next)(c)

		var httpErr *echo.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}

func TestValidatorUsesJSONFieldNames(t *testing.T) {
	type payload struct {
		UserName string `json:"username" validate:"required"`
	}

	err := NewValidator().Validate(&payload{})
	assert.Error(t, err)

	fieldErrs, ok := err.(validator.ValidationErrors)
	assert.True(t, ok)
	assert.Equal(t, "username", fieldErrs[0].Field())
}
