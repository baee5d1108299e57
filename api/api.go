package api

import "embed"

// JSONSchema document for protocol message validation, schema id from $id or path without extension
//
//go:embed jsonschema
var JSONSchema embed.FS

// GraphQLSchema document for every registered subscription schema
//
//go:embed graphql
var GraphQLSchema embed.FS
