package gateway

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/apigateway/types"
)

// IsConflict reports whether an error means the entity already exists.
// Conflicts during creation are treated as "reuse what is there".
func IsConflict(err error) bool {
	var conflict *types.ConflictException
	return errors.As(err, &conflict)
}

func IsNotFound(err error) bool {
	var notFound *types.NotFoundException
	return errors.As(err, &notFound)
}
