package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AzielCF/az-reply/config"
	domainApp "github.com/AzielCF/az-reply/domains/app"
	"github.com/AzielCF/az-reply/infrastructure/whatsapp"
	pkgError "github.com/AzielCF/az-reply/pkg/error"
	"github.com/AzielCF/az-reply/ui/websocket"
	"github.com/dustin/go-humanize"
	fiberUtils "github.com/gofiber/fiber/v2/utils"
	"github.com/mdp/qrterminal/v3"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
)

type serviceApp struct{}

func NewAppService() domainApp.IAppUsecase {
	return &serviceApp{}
}

func (service *serviceApp) Login(_ context.Context) (response domainApp.LoginResponse, err error) {
	client := whatsapp.GetClient()
	if client == nil {
		return response, pkgError.ErrWaCLI
	}

	// Disconnect for reconnecting
	client.Disconnect()

	chImage := make(chan string)

	ch, err := client.GetQRChannel(context.Background())
	if err != nil {
		logrus.Error(err.Error())
		// This error means that we're already logged in, so ignore it.
		if errors.Is(err, whatsmeow.ErrQRStoreContainsID) {
			_ = client.Connect() // just connect to websocket
			if client.IsLoggedIn() {
				return response, pkgError.ErrAlreadyLoggedIn
			}
			return response, pkgError.ErrSessionSaved
		}
		return response, pkgError.ErrQrChannel
	}

	go func() {
		for evt := range ch {
			response.Code = evt.Code
			response.Duration = evt.Timeout / time.Second / 2
			if evt.Event == "code" {
				qrPath := fmt.Sprintf("%s/scan-qr-%s.png", config.PathQrCode, fiberUtils.UUIDv4())
				if err := qrcode.WriteFile(evt.Code, qrcode.Medium, 512, qrPath); err != nil {
					logrus.Error("Error when write qr code to file: ", err)
				}
				if config.AppDebug {
					qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
				}
				go func(path string, wait time.Duration) {
					time.Sleep(wait * time.Second)
					if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
						logrus.Error("error when remove qrImage file ", err.Error())
					}
				}(qrPath, response.Duration)
				websocket.Broadcast <- websocket.BroadcastMessage{
					Code:    "QR_CODE",
					Message: "Scan the QR code to log in",
					Result:  map[string]any{"image_path": qrPath, "duration": int64(response.Duration)},
				}
				chImage <- qrPath
			} else {
				logrus.Error("error when get qrCode ", evt.Event, " ", evt.Error)
			}
		}
	}()

	err = client.Connect()
	if err != nil {
		logrus.Error("Error when connect to whatsapp: ", err)
		return response, pkgError.ErrReconnect
	}
	response.ImagePath = <-chImage

	return response, nil
}

func (service *serviceApp) Logout(ctx context.Context) (err error) {
	client := whatsapp.GetClient()
	if client == nil {
		return pkgError.ErrWaCLI
	}

	if err = client.Logout(ctx); err != nil {
		logrus.Errorf("[LOGOUT] WhatsApp logout failed: %v", err)
	}

	newDB, newCli, err := whatsapp.PerformCleanupAndUpdateGlobals(ctx, "MANUAL_LOGOUT")
	if err != nil {
		return err
	}

	whatsapp.UpdateGlobalClient(newCli, newDB)
	return nil
}

func (service *serviceApp) Reconnect(_ context.Context) (err error) {
	client := whatsapp.GetClient()
	if client == nil {
		return pkgError.ErrWaCLI
	}

	client.Disconnect()
	if err = client.Connect(); err != nil {
		logrus.Errorf("[RECONNECT] Failed: %v", err)
		return pkgError.ErrReconnect
	}

	logrus.Infof("[RECONNECT] Completed - IsConnected: %v, IsLoggedIn: %v",
		client.IsConnected(), client.IsLoggedIn())
	return nil
}

func (service *serviceApp) ConnectionStatus(_ context.Context) (response domainApp.StatusResponse, err error) {
	isConnected, isLoggedIn, deviceID := whatsapp.GetConnectionStatus()
	response.IsConnected = isConnected
	response.IsLoggedIn = isLoggedIn
	response.IsReady = isConnected && isLoggedIn
	response.DeviceID = deviceID
	if since := whatsapp.ConnectedSince(); !since.IsZero() {
		response.ConnectedSince = humanize.Time(since)
	}
	return response, nil
}
