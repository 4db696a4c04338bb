package gke

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/stratokube/strato/domain/model"
)

// isNotFound reports whether err is a GCP 404 response.
func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

// wrapErr wraps an SDK error as a ProviderError tagged with the operation
// that issued the call.
func (d *driver) wrapErr(operation string, err error) error {
	if err == nil {
		return nil
	}
	return model.NewProviderError(model.ProviderGCP, operation, err)
}
