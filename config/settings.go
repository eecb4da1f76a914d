package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/whatsmeow/proto/waCompanionReg"
)

var (
	AppVersion             = "v1.2.0"
	AppPort                = "3000"
	AppDebug               = false
	AppOs                  = "AzReply"
	AppBasicAuthCredential []string
	AppBasePath            = ""
	AppTrustedProxies      []string
	AppPlatform            = waCompanionReg.DeviceProps_PlatformType(1)

	PathQrCode   = "statics/qrcode"
	PathStorages = "storages"

	DBURI = "file:storages/whatsapp.db?_foreign_keys=on"

	// RulesDBURI is the gorm database holding keyword rules. Empty means
	// sqlite under PathStorages.
	RulesDBURI = ""

	WhatsappLogLevel         = "ERROR"
	WhatsappWebhook          []string
	WhatsappWebhookSecret    = "secret"
	WhatsappIgnoreGroupChats = true
	WhatsappTypeUser         = "@s.whatsapp.net"
	WhatsappTypeGroup        = "@g.us"

	// AI fallback settings. Provider is "gemini" or "openai".
	AIReplyEnabled bool
	AIProvider     = "gemini"
	AIAPIKey       string
	AIModel        string
	AISystemPrompt = "You are a helpful assistant responding to WhatsApp messages."

	// Activity log retention (entries kept in memory for the dashboard).
	ActivityLogMaxEntries = 500

	// Message Worker Pool settings
	MessageWorkerPoolSize  int = 20
	MessageWorkerQueueSize int = 1000

	// Valkey (optional, for multi-server websocket broadcast)
	ValkeyEnabled  = false
	ValkeyAddress  = "127.0.0.1:6379"
	ValkeyPassword = ""
	ValkeyDB       = 0
)

func init() {
	if v := strings.TrimSpace(os.Getenv("AI_PROVIDER")); v != "" {
		AIProvider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("AI_API_KEY")); v != "" {
		AIAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" && AIAPIKey == "" {
		AIAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" && AIAPIKey == "" {
		AIAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("AI_MODEL")); v != "" {
		AIModel = v
	}
	if v := strings.TrimSpace(os.Getenv("AI_SYSTEM_PROMPT")); v != "" {
		AISystemPrompt = v
	}
	if v := strings.TrimSpace(os.Getenv("AI_REPLY_ENABLED")); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y", "on":
			AIReplyEnabled = true
		case "0", "false", "no", "n", "off":
			AIReplyEnabled = false
		}
	}
	loadAIReplyEnabledFromDB()

	if v := strings.TrimSpace(os.Getenv("ACTIVITY_LOG_MAX_ENTRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ActivityLogMaxEntries = n
		}
	}

	if val := os.Getenv("MESSAGE_WORKER_POOL_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			MessageWorkerPoolSize = parsed
		}
	}
	if val := os.Getenv("MESSAGE_WORKER_QUEUE_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			MessageWorkerQueueSize = parsed
		}
	}

	if v := strings.TrimSpace(os.Getenv("VALKEY_ENABLED")); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			ValkeyEnabled = true
		}
	}
	if v := strings.TrimSpace(os.Getenv("VALKEY_ADDRESS")); v != "" {
		ValkeyAddress = v
	}
	if v := os.Getenv("VALKEY_PASSWORD"); v != "" {
		ValkeyPassword = v
	}
	if v := strings.TrimSpace(os.Getenv("VALKEY_DB")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			ValkeyDB = n
		}
	}
}

func SetAIReplyEnabled(v bool) {
	AIReplyEnabled = v
}

// SaveAIReplyEnabled persists the AI fallback toggle so it survives restarts.
func SaveAIReplyEnabled(v bool) error {
	SetAIReplyEnabled(v)
	return saveAIReplyEnabledToDB()
}

func settingsDB() (*sql.DB, error) {
	dbPath := fmt.Sprintf("%s/settings.db", PathStorages)
	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_settings (key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func loadAIReplyEnabledFromDB() {
	db, err := settingsDB()
	if err != nil {
		return
	}
	defer db.Close()

	var v sql.NullString
	if err := db.QueryRow(`SELECT value FROM global_settings WHERE key = 'ai_reply_enabled'`).Scan(&v); err != nil {
		return
	}
	if v.Valid {
		switch strings.ToLower(strings.TrimSpace(v.String)) {
		case "1", "true", "yes", "y", "on":
			AIReplyEnabled = true
		case "0", "false", "no", "n", "off":
			AIReplyEnabled = false
		}
	}
}

func saveAIReplyEnabledToDB() error {
	db, err := settingsDB()
	if err != nil {
		return err
	}
	defer db.Close()

	val := "0"
	if AIReplyEnabled {
		val = "1"
	}
	_, err = db.Exec(`INSERT INTO global_settings (key, value) VALUES ('ai_reply_enabled', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, val)
	return err
}
