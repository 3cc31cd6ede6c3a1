package interfaces

import "github.com/umeshlumbhani/wifi-creds/internal/models"

// Network represents network module
type Network interface {
	GetAccessPoint() (accessPoints []models.AccessPoint, err error)
	Provision() (added int, err error)
}

// HTTPServer represents httpserver module
type HTTPServer interface {
	StartHTTPServer()
	CloseHTTPServer()
}
