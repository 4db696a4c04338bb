package aks

import (
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/stratokube/strato/domain/model"
)

// isNotFound reports whether err is an ARM 404 response.
func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

// wrapErr wraps an SDK error as a ProviderError tagged with the operation
// that issued the call.
func (d *driver) wrapErr(operation string, err error) error {
	if err == nil {
		return nil
	}
	return model.NewProviderError(model.ProviderAzure, operation, err)
}
