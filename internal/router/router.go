package router

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/errors"
	"storefront/internal/handler"
)

// Register wires routes and middleware. Catalog reads are open; catalog
// writes require a valid access token; user management requires staff.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	productHandler *handler.ProductHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Catalog reads are open to any caller.
	api.GET("/categories", categoryHandler.ListCategories)
	api.GET("/categories/:id", categoryHandler.GetCategory)
	api.GET("/products", productHandler.ListProducts)
	api.GET("/products/:id", productHandler.GetProduct)

	authRequired := echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	})

	// Self profile
	api.GET("/me", userHandler.Me, authRequired)
	api.PUT("/me", userHandler.UpdateMe, authRequired)
	api.PATCH("/me", userHandler.UpdateMe, authRequired)

	// Catalog writes require authentication.
	api.POST("/categories", categoryHandler.CreateCategory, authRequired)
	api.PUT("/categories/:id", categoryHandler.UpdateCategory, authRequired)
	api.PATCH("/categories/:id", categoryHandler.UpdateCategory, authRequired)
	api.DELETE("/categories/:id", categoryHandler.DeleteCategory, authRequired)
	api.POST("/products", productHandler.CreateProduct, authRequired)
	api.PUT("/products/:id", productHandler.UpdateProduct, authRequired)
	api.PATCH("/products/:id", productHandler.UpdateProduct, authRequired)
	api.DELETE("/products/:id", productHandler.DeleteProduct, authRequired)

	// User management requires the staff flag.
	users := api.Group("/users", authRequired, RequireStaff)
	users.GET("", userHandler.ListUsers)
	users.POST("", userHandler.CreateUser)
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.PATCH("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)
}

// RequireStaff rejects callers whose access token lacks the staff flag.
func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := auth.FromContext(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "invalid token",
				Code:  "INVALID_TOKEN",
			})
		}
		if !claims.IsStaff {
			httpErr := errors.MapErrorToHTTP(errors.ErrStaffRequired)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the request validator. Field names in validation
// errors follow the json tag so error payloads key on wire names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
