// Package dto defines the request and response payloads of the HTTP API.
package dto

import "github.com/hometracker/home-backup-service/pkg/timex"

// ProviderAddRequest adds a WebDAV provider.
type ProviderAddRequest struct {
	Name           string `json:"name" form:"name" binding:"required,max=64" example:"nas"`
	Kind           string `json:"kind" form:"kind" binding:"omitempty" example:"webdav"`
	URL            string `json:"url" form:"url" binding:"required,url" example:"https://nas.local/dav"`
	Username       string `json:"username" form:"username" example:"backup"`
	Password       string `json:"password" form:"password" example:"secret"`
	BasePath       string `json:"basePath" form:"basePath" example:"/hometracker"`
	TimeoutSeconds int    `json:"timeoutSeconds" form:"timeoutSeconds" binding:"omitempty,min=1,max=300" example:"30"`
}

// ProviderNameRequest addresses a provider by name.
type ProviderNameRequest struct {
	Name string `json:"name" form:"name" uri:"name" binding:"required" example:"nas"`
}

// ProviderDTO is one provider with its live state.
type ProviderDTO struct {
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	Connected  bool       `json:"connected"`
	TotalFiles int64      `json:"totalFiles"`
	TotalSize  int64      `json:"totalSize"`
	SizeHuman  string     `json:"sizeHuman"`
	CreatedAt  timex.Time `json:"createdAt"`
}

// ProviderTestDTO is the result of an explicit connection check.
type ProviderTestDTO struct {
	OK        bool   `json:"ok"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}
