package subscription

import (
	"github.com/golangid/gqlsubscription/candishared"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ExtractChannel parse subscription document and return the name of its single root field.
// Without operationName the last operation definition of the document is selected.
func ExtractChannel(query, operationName string) (string, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return "", candishared.NewInvalidQueryError(err)
	}

	var operation *ast.OperationDefinition
	for _, op := range doc.Operations {
		if operationName == "" || op.Name == operationName {
			operation = op
		}
	}

	if operation == nil {
		return "", candishared.NewInvalidOperationError("Operation should be of type subscription but none given")
	}
	if operation.Operation != ast.Subscription {
		return "", candishared.NewInvalidOperationError("Operation should be of type subscription but %q given", operation.Operation)
	}
	if len(operation.SelectionSet) != 1 {
		return "", candishared.NewInvalidOperationError("Subscription operations must have exactly one root field.")
	}

	field, ok := operation.SelectionSet[0].(*ast.Field)
	if !ok {
		return "", candishared.NewInvalidOperationError("Subscription root selection must be a field.")
	}
	return field.Name, nil
}
