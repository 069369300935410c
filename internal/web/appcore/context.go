package appcore

import (
	"errors"

	"digiparc/internal/catalog"
)

var errCatalogServiceUnavailable = errors.New("catalog service unavailable")

type Context struct {
	service *catalog.Service
}

func NewContext(service *catalog.Service) *Context {
	return &Context{service: service}
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, catalog.ErrNotFound)
}

func catalogService(appCtx *Context) (*catalog.Service, error) {
	if appCtx == nil || appCtx.service == nil {
		return nil, errCatalogServiceUnavailable
	}
	return appCtx.service, nil
}
