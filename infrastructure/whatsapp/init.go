package whatsapp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/AzielCF/az-reply/config"
	pkgError "github.com/AzielCF/az-reply/pkg/error"
	"github.com/AzielCF/az-reply/pkg/msgworker"
	"github.com/AzielCF/az-reply/ui/websocket"
	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/appstate"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// IncomingHandler receives every inbound text message that survives the
// event-level filters (own messages, broadcasts, optionally groups).
type IncomingHandler func(ctx context.Context, chatJID, message string)

var (
	globalStateMu sync.RWMutex
	cli           *whatsmeow.Client
	db            *sqlstore.Container
	log           waLog.Logger

	connectedMu    sync.RWMutex
	connectedSince time.Time

	incomingMu      sync.RWMutex
	incomingHandler IncomingHandler
)

// SetIncomingHandler installs the routing callback. Messages arriving before
// a handler is set are dropped.
func SetIncomingHandler(fn IncomingHandler) {
	incomingMu.Lock()
	incomingHandler = fn
	incomingMu.Unlock()
}

func getIncomingHandler() IncomingHandler {
	incomingMu.RLock()
	defer incomingMu.RUnlock()
	return incomingHandler
}

// --- Initialization & Setup ---

func InitWaDB(ctx context.Context, DBURI string) *sqlstore.Container {
	log = waLog.Stdout("Main", config.WhatsappLogLevel, true)
	container, err := initDatabase(ctx, waLog.Stdout("Database", config.WhatsappLogLevel, true), DBURI)
	if err != nil {
		panic(pkgError.InternalServerError(fmt.Sprintf("Database initialization error: %v", err)))
	}
	return container
}

func initDatabase(ctx context.Context, dbLog waLog.Logger, DBURI string) (*sqlstore.Container, error) {
	if strings.HasPrefix(DBURI, "postgres:") {
		return sqlstore.New(ctx, "postgres", DBURI, dbLog)
	}
	// Default to sqlite3 (file:)
	return sqlstore.New(ctx, "sqlite3", DBURI, dbLog)
}

func InitWaCLI(ctx context.Context, storeContainer *sqlstore.Container) *whatsmeow.Client {
	device, err := storeContainer.GetFirstDevice(ctx)
	if err != nil {
		panic(err)
	}
	if device == nil {
		panic("No device found")
	}

	configureDeviceProps()

	// Arranca el pool de workers antes de aceptar eventos.
	msgworker.GetGlobalPool()

	client := whatsmeow.NewClient(device, waLog.Stdout("Client", config.WhatsappLogLevel, true))
	client.EnableAutoReconnect = true
	client.AutoTrustIdentity = true
	client.AddEventHandler(func(rawEvt interface{}) { handler(ctx, rawEvt) })

	globalStateMu.Lock()
	cli = client
	db = storeContainer
	globalStateMu.Unlock()

	return client
}

// --- Client & State Management ---

func UpdateGlobalClient(newCli *whatsmeow.Client, newDB *sqlstore.Container) {
	globalStateMu.Lock()
	cli = newCli
	db = newDB
	globalStateMu.Unlock()
	log.Infof("Global WhatsApp client updated successfully")
}

func GetClient() *whatsmeow.Client {
	globalStateMu.RLock()
	defer globalStateMu.RUnlock()
	return cli
}

func GetDB() *sqlstore.Container {
	globalStateMu.RLock()
	defer globalStateMu.RUnlock()
	return db
}

// IsReady reports whether the client can actually deliver a reply: socket
// connected and session authenticated. Both are required before any send.
func IsReady() bool {
	client := GetClient()
	if client == nil {
		return false
	}
	return client.IsConnected() && client.IsLoggedIn()
}

func GetConnectionStatus() (isConnected bool, isLoggedIn bool, deviceID string) {
	client := GetClient()
	if client == nil {
		return false, false, ""
	}
	if client.Store != nil && client.Store.ID != nil {
		deviceID = client.Store.ID.String()
	}
	return client.IsConnected(), client.IsLoggedIn(), deviceID
}

// ConnectedSince returns the time of the last successful connect, zero when
// the client never connected in this process.
func ConnectedSince() time.Time {
	connectedMu.RLock()
	defer connectedMu.RUnlock()
	return connectedSince
}

func markConnected() {
	connectedMu.Lock()
	if connectedSince.IsZero() {
		connectedSince = time.Now()
	}
	connectedMu.Unlock()
}

func markDisconnected() {
	connectedMu.Lock()
	connectedSince = time.Time{}
	connectedMu.Unlock()
}

// --- Cleanup & Helpers ---

func configureDeviceProps() {
	osName := fmt.Sprintf("%s %s", config.AppOs, config.AppVersion)
	store.DeviceProps.PlatformType = &config.AppPlatform
	store.DeviceProps.Os = &osName
}

func CleanupDatabase() error {
	globalStateMu.RLock()
	currentDB := db
	globalStateMu.RUnlock()

	if strings.HasPrefix(config.DBURI, "postgres:") {
		logrus.Info("[CLEANUP] Postgres: deleting all devices")
		if currentDB != nil {
			devices, _ := currentDB.GetAllDevices(context.Background())
			for _, d := range devices {
				if err := currentDB.DeleteDevice(context.Background(), d); err != nil {
					return err
				}
			}
		}
		return nil
	}

	logrus.Info("[CLEANUP] SQLite: closing and removing files")
	if currentDB != nil {
		currentDB.Close()
	}
	removeFileIfExists(config.DBURI)
	return nil
}

func removeFileIfExists(uri string) {
	uri = strings.TrimPrefix(uri, "file:")
	path := strings.Split(uri, "?")[0]
	if path == "" || strings.HasPrefix(path, ":memory:") {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logrus.Errorf("[CLEANUP] Failed to remove %s: %v", path, err)
	}
}

func CleanupTemporaryFiles() error {
	files, _ := filepath.Glob(fmt.Sprintf("./%s/scan-*", config.PathQrCode))
	for _, f := range files {
		if strings.Contains(f, ".gitignore") {
			continue
		}
		os.Remove(f)
	}
	logrus.Info("[CLEANUP] QR images cleaned up")
	return nil
}

// PerformCleanupAndUpdateGlobals tears down the session store and rebuilds a
// fresh client ready for a new QR login.
func PerformCleanupAndUpdateGlobals(ctx context.Context, logPrefix string) (*sqlstore.Container, *whatsmeow.Client, error) {
	logrus.Infof("[%s] Starting cleanup...", logPrefix)
	if c := GetClient(); c != nil {
		c.Disconnect()
	}
	markDisconnected()
	if err := CleanupDatabase(); err != nil {
		return nil, nil, err
	}
	CleanupTemporaryFiles()

	newDB := InitWaDB(ctx, config.DBURI)
	newCli := InitWaCLI(ctx, newDB)
	UpdateGlobalClient(newCli, newDB)

	logrus.Infof("[%s] Cleanup finished, ready for login.", logPrefix)
	return newDB, newCli, nil
}

func handleRemoteLogout(ctx context.Context) {
	logrus.Info("[REMOTE_LOGOUT] User logged out, cleaning up...")
	PerformCleanupAndUpdateGlobals(ctx, "REMOTE_LOGOUT")
}

// --- Event Handlers ---

func handler(ctx context.Context, rawEvt any) {
	switch evt := rawEvt.(type) {
	case *events.AppStateSyncComplete:
		if client := GetClient(); client != nil && len(client.Store.PushName) > 0 && evt.Name == appstate.WAPatchCriticalBlock {
			client.SendPresence(context.Background(), types.PresenceAvailable)
		}
	case *events.PairSuccess:
		websocket.Broadcast <- websocket.BroadcastMessage{Code: "LOGIN_SUCCESS", Message: fmt.Sprintf("Successfully pair with %s", evt.ID.String())}
	case *events.Connected, *events.PushNameSetting:
		markConnected()
		if client := GetClient(); client != nil && len(client.Store.PushName) > 0 {
			client.SendPresence(context.Background(), types.PresenceAvailable)
		}
		websocket.Broadcast <- websocket.BroadcastMessage{Code: "CONNECTION_UP", Message: "WhatsApp connection established"}
	case *events.Disconnected:
		markDisconnected()
		websocket.Broadcast <- websocket.BroadcastMessage{Code: "CONNECTION_DOWN", Message: "WhatsApp connection lost"}
	case *events.LoggedOut:
		markDisconnected()
		handleRemoteLogout(ctx)
		websocket.Broadcast <- websocket.BroadcastMessage{Code: "LOGOUT_COMPLETE", Message: "Remote logout cleanup completed"}
	case *events.StreamReplaced:
		os.Exit(0)
	case *events.Message:
		handleMessage(ctx, evt)
	}
}
