package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kat-co/vala"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Wallet provider kinds selectable through WALLET_PROVIDER.
const (
	WalletProviderNone    = "none"
	WalletProviderKeypair = "keypair"
	WalletProviderRemote  = "remote"
)

type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	BaseURL                        string
	EnableCORSMiddleware           bool
	EnableLoggerMiddleware         bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableTrailingSlashMiddleware  bool
	EnableMetricsMiddleware        bool
	BodyLimit                      string
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestHeader   bool
	LogRequestQuery    bool
	PrettyPrintConsole bool
}

type Management struct {
	ReadinessTimeout time.Duration
	LivenessTimeout  time.Duration
}

type ServiceFee struct {
	Enabled     bool
	Destination string
	Amount      string
}

type Soroban struct {
	Network           string
	NetworkPassphrase string
	ContractID        string
	RPCURLs           []string
	LocalRPCURL       string
	MinRPCVersion     string
	BaseFee           int64
	TxTimeout         time.Duration
	QueryTimeout      time.Duration
	ProbeTimeout      time.Duration
	RequestTimeout    time.Duration
	PollInterval      time.Duration
	PollMaxAttempts   int
	ServiceFee        ServiceFee
}

type Wallet struct {
	Provider        string
	SecretSeed      string `json:"-"`
	RemoteEndpoint  string
	RemoteAPIKey    string `json:"-"`
	RequestTimeout  time.Duration
	ExpectedNetwork string
}

type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

type Server struct {
	Echo       EchoServer
	Logger     LoggerServer
	Management Management
	Soroban    Soroban
	Wallet     Wallet
	RateLimit  RateLimit
}

var envFilesOnce sync.Once

// loadEnvFiles loads .env.local and .env from the working directory. Values
// already present in the environment win.
func loadEnvFiles() {
	envFilesOnce.Do(func() {
		for _, file := range []string{".env.local", ".env"} {
			if _, err := os.Stat(file); err != nil {
				continue
			}

			if err := gotenv.Load(file); err != nil {
				log.Warn().Err(err).Str("file", file).Msg("Failed to load env file")
			}
		}
	})
}

// DefaultServiceConfigFromEnv returns the server config as parsed from the
// environment, falling back to the profile of the selected network.
func DefaultServiceConfigFromEnv() Server {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_ECHO_LISTEN_ADDRESS", ":8080")
	v.SetDefault("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true)
	v.SetDefault("SERVER_ECHO_BASE_URL", "http://localhost:8080")
	v.SetDefault("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_TRAILING_SLASH_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_METRICS_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_BODY_LIMIT", "25M")
	v.SetDefault("SERVER_LOGGER_LEVEL", zerolog.DebugLevel.String())
	v.SetDefault("SERVER_LOGGER_REQUEST_LEVEL", zerolog.DebugLevel.String())
	v.SetDefault("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false)
	v.SetDefault("SERVER_MANAGEMENT_READINESS_TIMEOUT", 4*time.Second)
	v.SetDefault("SERVER_MANAGEMENT_LIVENESS_TIMEOUT", 9*time.Second)
	v.SetDefault("SERVER_RATE_LIMIT_RPS", 0.2)
	v.SetDefault("SERVER_RATE_LIMIT_BURST", 3)
	v.SetDefault("SOROBAN_NETWORK", DefaultNetwork)
	v.SetDefault("SOROBAN_BASE_FEE", 100)
	v.SetDefault("SOROBAN_TX_TIMEOUT", 180*time.Second)
	v.SetDefault("SOROBAN_QUERY_TIMEOUT", 60*time.Second)
	v.SetDefault("SOROBAN_PROBE_TIMEOUT", 10*time.Second)
	v.SetDefault("SOROBAN_REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("SOROBAN_POLL_INTERVAL", 1500*time.Millisecond)
	v.SetDefault("SOROBAN_POLL_MAX_ATTEMPTS", 20)
	v.SetDefault("SOROBAN_ENABLE_SERVICE_FEE", false)
	v.SetDefault("SOROBAN_SERVICE_FEE_AMOUNT", "1")
	v.SetDefault("WALLET_PROVIDER", WalletProviderNone)
	v.SetDefault("WALLET_REQUEST_TIMEOUT", 2*time.Minute)

	network := v.GetString("SOROBAN_NETWORK")
	profile, err := LookupNetwork(network)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to resolve network profile")
	}

	rpcURLs := profile.RPCURLs
	if raw := v.GetString("SOROBAN_RPC_URLS"); raw != "" {
		rpcURLs = splitList(raw)
	}

	return Server{
		Echo: EchoServer{
			Debug:                          v.GetBool("SERVER_ECHO_DEBUG"),
			ListenAddress:                  v.GetString("SERVER_ECHO_LISTEN_ADDRESS"),
			HideInternalServerErrorDetails: v.GetBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS"),
			BaseURL:                        v.GetString("SERVER_ECHO_BASE_URL"),
			EnableCORSMiddleware:           v.GetBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE"),
			EnableLoggerMiddleware:         v.GetBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE"),
			EnableRecoverMiddleware:        v.GetBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE"),
			EnableRequestIDMiddleware:      v.GetBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE"),
			EnableTrailingSlashMiddleware:  v.GetBool("SERVER_ECHO_ENABLE_TRAILING_SLASH_MIDDLEWARE"),
			EnableMetricsMiddleware:        v.GetBool("SERVER_ECHO_ENABLE_METRICS_MIDDLEWARE"),
			BodyLimit:                      v.GetString("SERVER_ECHO_BODY_LIMIT"),
		},
		Logger: LoggerServer{
			Level:              logLevel(v.GetString("SERVER_LOGGER_LEVEL")),
			RequestLevel:       logLevel(v.GetString("SERVER_LOGGER_REQUEST_LEVEL")),
			LogRequestHeader:   v.GetBool("SERVER_LOGGER_LOG_REQUEST_HEADER"),
			LogRequestQuery:    v.GetBool("SERVER_LOGGER_LOG_REQUEST_QUERY"),
			PrettyPrintConsole: v.GetBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE"),
		},
		Management: Management{
			ReadinessTimeout: v.GetDuration("SERVER_MANAGEMENT_READINESS_TIMEOUT"),
			LivenessTimeout:  v.GetDuration("SERVER_MANAGEMENT_LIVENESS_TIMEOUT"),
		},
		Soroban: Soroban{
			Network:           profile.Name,
			NetworkPassphrase: stringOr(v.GetString("SOROBAN_NETWORK_PASSPHRASE"), profile.Passphrase),
			ContractID:        stringOr(v.GetString("SOROBAN_CONTRACT_ID"), profile.ContractID),
			RPCURLs:           rpcURLs,
			LocalRPCURL:       stringOr(v.GetString("SOROBAN_LOCAL_RPC_URL"), profile.LocalRPCURL),
			MinRPCVersion:     stringOr(v.GetString("SOROBAN_MIN_RPC_VERSION"), profile.MinRPCVersion),
			BaseFee:           v.GetInt64("SOROBAN_BASE_FEE"),
			TxTimeout:         v.GetDuration("SOROBAN_TX_TIMEOUT"),
			QueryTimeout:      v.GetDuration("SOROBAN_QUERY_TIMEOUT"),
			ProbeTimeout:      v.GetDuration("SOROBAN_PROBE_TIMEOUT"),
			RequestTimeout:    v.GetDuration("SOROBAN_REQUEST_TIMEOUT"),
			PollInterval:      v.GetDuration("SOROBAN_POLL_INTERVAL"),
			PollMaxAttempts:   v.GetInt("SOROBAN_POLL_MAX_ATTEMPTS"),
			ServiceFee: ServiceFee{
				Enabled:     v.GetBool("SOROBAN_ENABLE_SERVICE_FEE"),
				Destination: stringOr(v.GetString("SOROBAN_SERVICE_FEE_DEST"), profile.ServiceFeeDestination),
				Amount:      v.GetString("SOROBAN_SERVICE_FEE_AMOUNT"),
			},
		},
		Wallet: Wallet{
			Provider:        strings.ToLower(v.GetString("WALLET_PROVIDER")),
			SecretSeed:      v.GetString("WALLET_SECRET_SEED"),
			RemoteEndpoint:  v.GetString("WALLET_REMOTE_ENDPOINT"),
			RemoteAPIKey:    v.GetString("WALLET_REMOTE_API_KEY"),
			RequestTimeout:  v.GetDuration("WALLET_REQUEST_TIMEOUT"),
			ExpectedNetwork: stringOr(v.GetString("WALLET_EXPECTED_NETWORK"), profile.WalletNetwork),
		},
		RateLimit: RateLimit{
			RequestsPerSecond: v.GetFloat64("SERVER_RATE_LIMIT_RPS"),
			Burst:             v.GetInt("SERVER_RATE_LIMIT_BURST"),
		},
	}
}

// Validate checks the values the server cannot start without.
func (s Server) Validate() error {
	checks := []vala.Checker{
		vala.StringNotEmpty(s.Echo.ListenAddress, "SERVER_ECHO_LISTEN_ADDRESS"),
		vala.StringNotEmpty(s.Soroban.NetworkPassphrase, "SOROBAN_NETWORK_PASSPHRASE"),
		vala.StringNotEmpty(s.Soroban.ContractID, "SOROBAN_CONTRACT_ID"),
		vala.GreaterThan(s.Soroban.PollMaxAttempts, 0, "SOROBAN_POLL_MAX_ATTEMPTS"),
		vala.GreaterThan(int(s.Soroban.BaseFee), 0, "SOROBAN_BASE_FEE"),
	}

	switch s.Wallet.Provider {
	case WalletProviderKeypair:
		checks = append(checks, vala.StringNotEmpty(s.Wallet.SecretSeed, "WALLET_SECRET_SEED"))
	case WalletProviderRemote:
		checks = append(checks, vala.StringNotEmpty(s.Wallet.RemoteEndpoint, "WALLET_REMOTE_ENDPOINT"))
	case WalletProviderNone:
	default:
		checks = append(checks, func() (bool, string) {
			return false, "WALLET_PROVIDER: unknown provider " + s.Wallet.Provider
		})
	}

	return vala.BeginValidation().Validate(checks...).Check()
}

func logLevel(s string) zerolog.Level {
	l, err := zerolog.ParseLevel(s)
	if err != nil {
		log.Error().Err(err).Str("level", s).Msg("Failed to parse log level, defaulting to debug")
		return zerolog.DebugLevel
	}
	return l
}

func stringOr(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}

func splitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
