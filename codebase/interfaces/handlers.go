package interfaces

import (
	"github.com/labstack/echo"
)

// EchoRestHandler delivery factory for echo handler
type EchoRestHandler interface {
	Mount(group *echo.Group)
}

// GraphQLHandler delivery factory for graphql subscription schema, schema name empty for default schema
type GraphQLHandler interface {
	SchemaName() string
	SchemaSource() string
	Resolver() interface{}
}
