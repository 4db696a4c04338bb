package eks

import (
	"errors"
	"strings"

	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
	"github.com/aws/smithy-go"

	"github.com/stratokube/strato/domain/model"
)

// isNotFound reports whether err is an AWS not-found response. EKS raises
// ResourceNotFoundException; EC2 uses per-resource codes that all end in
// ".NotFound" (InvalidVpcID.NotFound, InvalidGroup.NotFound, ...).
func isNotFound(err error) bool {
	var rnf *ekstypes.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "ResourceNotFoundException" || strings.HasSuffix(code, ".NotFound")
	}
	return false
}

// wrapErr wraps an SDK error as a ProviderError tagged with the operation
// that issued the call. The SDK error stays reachable through Unwrap.
func (d *driver) wrapErr(operation string, err error) error {
	if err == nil {
		return nil
	}
	return model.NewProviderError(model.ProviderAWS, operation, err)
}
