// Package handler contains the Echo HTTP handlers. Handlers stay
// thin: they bind request bodies, resolve path parameters, call into
// repositories and services and translate outcomes to status codes.
package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/averdin/northwind-api/internal/model"
)

// dbTimeout bounds every per-request database interaction.
const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the incoming request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// locationPart is the JSON shape of an owned location, shared by the
// supplier and customer endpoints.
type locationPart struct {
	ID         uint64 `json:"id"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	Extension  string `json:"extension"`
	Fax        string `json:"fax"`
}

func toLocationPart(l *model.Location) *locationPart {
	if l == nil {
		return nil
	}
	return &locationPart{
		ID:         l.ID,
		Address:    l.Address,
		City:       l.City,
		Region:     l.Region,
		PostalCode: l.PostalCode,
		Country:    l.Country,
		Phone:      l.Phone,
		Extension:  l.Extension,
		Fax:        l.Fax,
	}
}

func fromLocationPart(p *locationPart) *model.Location {
	if p == nil {
		return &model.Location{}
	}
	return &model.Location{
		Address:    p.Address,
		City:       p.City,
		Region:     p.Region,
		PostalCode: p.PostalCode,
		Country:    p.Country,
		Phone:      p.Phone,
		Extension:  p.Extension,
		Fax:        p.Fax,
	}
}
