package app

import (
	"context"
	"time"
)

type IAppUsecase interface {
	Login(ctx context.Context) (response LoginResponse, err error)
	Logout(ctx context.Context) (err error)
	Reconnect(ctx context.Context) (err error)
	ConnectionStatus(ctx context.Context) (response StatusResponse, err error)
}

type LoginResponse struct {
	ImagePath string        `json:"image_path"`
	Duration  time.Duration `json:"duration"`
	Code      string        `json:"code"`
}

type StatusResponse struct {
	IsConnected    bool   `json:"is_connected"`
	IsLoggedIn     bool   `json:"is_logged_in"`
	IsReady        bool   `json:"is_ready"`
	DeviceID       string `json:"device_id"`
	ConnectedSince string `json:"connected_since,omitempty"`
}
