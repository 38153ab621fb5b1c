package devicequery

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"pet-care-planner/internal/ports/location"
)

func TestProvider_FromQueryAndHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/shops/nearby?lat=-12.05&lon=-77.04", nil)
	c, err := FromRequest(r).CurrentCoordinate(context.Background())
	if err != nil {
		t.Fatalf("query coordinate: %v", err)
	}
	if c.Lat != -12.05 || c.Lon != -77.04 {
		t.Fatalf("unexpected coordinate %#v", c)
	}

	r = httptest.NewRequest("GET", "/shops/nearby", nil)
	r.Header.Set(HeaderName, "10.5, 20.25")
	c, err = FromRequest(r).CurrentCoordinate(context.Background())
	if err != nil || c.Lat != 10.5 || c.Lon != 20.25 {
		t.Fatalf("header coordinate: %#v %v", c, err)
	}
}

func TestProvider_MissingIsPermissionDenied(t *testing.T) {
	for _, target := range []string{"/x", "/x?lat=&lon="} {
		r := httptest.NewRequest("GET", target, nil)
		if _, err := FromRequest(r).CurrentCoordinate(context.Background()); !errors.Is(err, location.ErrPermissionDenied) {
			t.Fatalf("%s: expected ErrPermissionDenied, got %v", target, err)
		}
	}
}

func TestProvider_MalformedIsInvalidCoordinate(t *testing.T) {
	for _, target := range []string{"/x?lat=1", "/x?lat=a&lon=b", "/x?lat=91&lon=0", "/x?lat=0&lon=181"} {
		r := httptest.NewRequest("GET", target, nil)
		_, err := FromRequest(r).CurrentCoordinate(context.Background())
		if !errors.Is(err, location.ErrInvalidCoordinate) || errors.Is(err, location.ErrPermissionDenied) {
			t.Fatalf("%s: expected ErrInvalidCoordinate, got %v", target, err)
		}
	}

	r := httptest.NewRequest("GET", "/x", nil)
	r.Header.Set(HeaderName, "1,2,3")
	if _, err := FromRequest(r).CurrentCoordinate(context.Background()); !errors.Is(err, location.ErrInvalidCoordinate) {
		t.Fatalf("header with 3 parts: expected ErrInvalidCoordinate, got %v", err)
	}
}
