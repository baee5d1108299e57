package restserver

import (
	"fmt"
	"net/http"

	"github.com/golangid/gqlsubscription/wrapper"
	"github.com/labstack/echo"
)

// CustomHTTPErrorHandler custom echo http error
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he, ok := err.(*echo.HTTPError)
	if !ok {
		wrapper.NewHTTPErrorResponse(err).JSON(c.Response())
		return
	}

	message := fmt.Sprint(he.Message)
	if he.Code == http.StatusNotFound {
		message = fmt.Sprintf(`Resource "%s %s" not found`, c.Request().Method, c.Request().URL.Path)
	}
	wrapper.NewHTTPResponse(he.Code, message).JSON(c.Response())
}
