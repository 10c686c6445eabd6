/******************************************************************************
 *
 *  Description :
 *
 *    Setup & initialization.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Black3800/zeeu-api/server/auth"
	"github.com/Black3800/zeeu-api/server/logs"
	"github.com/Black3800/zeeu-api/server/store"
	"github.com/gorilla/handlers"
	jcr "github.com/tinode/jsonco"

	// Backend document stores.
	_ "github.com/Black3800/zeeu-api/server/db/firestore"
	_ "github.com/Black3800/zeeu-api/server/db/mongodb"

	// Identity verifiers.
	_ "github.com/Black3800/zeeu-api/server/auth/fbase"
)

const (
	// currentVersion is the current API/protocol version.
	currentVersion = "0.1"

	// defaultMaxMessageSize is the default maximum message size.
	defaultMaxMessageSize = 1 << 19 // 512K

	// defaultRequestTimeout is applied to every store call made on behalf
	// of a client request.
	defaultRequestTimeout = 30 * time.Second
)

// Large portions of the application state are stored here.
var globals struct {
	// Currently connected sessions.
	sessionStore *SessionStore
	// Identity token verifier.
	verifier auth.Verifier
	// Salt used to sign API keys, nil disables the key check.
	apiKeySalt []byte
	// Time limit on store calls made for a single request.
	requestTimeout time.Duration
	// Maximum message size allowed from peer.
	maxMessageSize int64
	// Add X-Forwarded-For number of the client to the logs.
	useXForwardedFor bool
	// Websocket per-message compression negotiation.
	wsCompression bool
	// Asynchronous writes of the expvar variables.
	statsUpdate chan *varUpdate
	// Intentional shutdown in progress.
	shuttingDown bool
	// Listen on this address for HTTP redirects to HTTPS.
	tlsRedirectHTTP string
	// Strict-Transport-Security max age, seconds, as a string.
	tlsStrictMaxAge string
}

// Contents of the configuration file.
type configType struct {
	// HTTP(S) address:port to listen on.
	Listen string `json:"listen"`
	// URL path for mounting the websocket endpoint.
	WSPath string `json:"ws_path"`
	// URL path for exposing runtime stats. Disabled if the path is blank or "-".
	ExpvarPath string `json:"expvar"`
	// File to log HTTP access to, "stdout" for console, blank to disable.
	AccessLog string `json:"access_log"`
	// Salt for signing API keys. Generate with the keygen utility.
	APIKeySalt []byte `json:"api_key_salt"`
	// Maximum message size allowed from client, bytes.
	MaxMessageSize int `json:"max_message_size"`
	// Store request timeout, seconds.
	RequestTimeout int `json:"request_timeout"`
	// Take IP address of the client from HTTP header 'X-Forwarded-For'.
	UseXForwardedFor bool `json:"use_x_forwarded_for"`
	// Allow websocket per-message compression.
	WSCompression bool `json:"ws_compression"`
	// Name of the identity verifier to use.
	UseVerifier string `json:"use_verifier"`
	// Configurations of identity verifiers, keyed by verifier name.
	Verifiers map[string]json.RawMessage `json:"verifiers"`
	// Configuration of the document store.
	Store json.RawMessage `json:"store_config"`
	// TLS configuration.
	TLS json.RawMessage `json:"tls"`
}

func main() {
	executable, _ := os.Executable()
	logFlags := flag.String("log_flags", "stdFlags",
		"Comma-separated list of log flags (as defined in https://golang.org/pkg/log/ w/o the L prefix)")
	configfile := flag.String("config", "zeeu.conf", "Path to config file.")
	listenOn := flag.String("listen", "", "Override address and port to listen on for HTTP(S) clients.")
	expvarPath := flag.String("expvar", "", "Override the path where runtime stats are exposed. Use '-' to disable.")
	flag.Parse()

	logs.Init(os.Stderr, *logFlags)

	curwd, err := os.Getwd()
	if err != nil {
		logs.Err.Fatal("Couldn't get current working directory: ", err)
	}

	logs.Info.Printf("Server v%s:%s; pid %d; %s",
		currentVersion, executable, os.Getpid(), curwd)

	*configfile = toAbsolutePath(curwd, *configfile)
	logs.Info.Printf("Using config from '%s'", *configfile)

	var config configType
	if file, err := os.Open(*configfile); err != nil {
		logs.Err.Fatal("Failed to read config file: ", err)
	} else {
		jr := jcr.New(file)
		if err = json.NewDecoder(jr).Decode(&config); err != nil {
			switch jerr := err.(type) {
			case *json.UnmarshalTypeError:
				lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
				logs.Err.Fatalf("Unmarshall error in config file in %s at %d:%d (offset %d bytes): %s",
					jerr.Field, lnum, cnum, jerr.Offset, jerr.Error())
			case *json.SyntaxError:
				lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
				logs.Err.Fatalf("Syntax error in config file at %d:%d (offset %d bytes): %s",
					lnum, cnum, jerr.Offset, jerr.Error())
			default:
				logs.Err.Fatal("Failed to parse config file: ", err)
			}
		}
		file.Close()
	}

	if *listenOn != "" {
		config.Listen = *listenOn
	}
	if *expvarPath != "" {
		config.ExpvarPath = *expvarPath
	}

	globals.sessionStore = NewSessionStore()
	globals.apiKeySalt = config.APIKeySalt
	globals.useXForwardedFor = config.UseXForwardedFor
	globals.wsCompression = config.WSCompression
	upgrader.EnableCompression = globals.wsCompression

	globals.maxMessageSize = int64(config.MaxMessageSize)
	if globals.maxMessageSize <= 0 {
		globals.maxMessageSize = defaultMaxMessageSize
	}

	globals.requestTimeout = time.Duration(config.RequestTimeout) * time.Second
	if globals.requestTimeout <= 0 {
		globals.requestTimeout = defaultRequestTimeout
	}

	if err = store.Store.Open(config.Store); err != nil {
		logs.Err.Fatal("Failed to connect to document store: ", err)
	}
	logs.Info.Println("Document store opened:", store.Store.GetAdapterName())
	defer func() {
		store.Store.Close()
		logs.Info.Println("Document store closed")
	}()

	if config.UseVerifier == "" {
		logs.Err.Fatal("Identity verifier is not configured")
	}
	globals.verifier = auth.GetVerifier(config.UseVerifier)
	if globals.verifier == nil {
		logs.Err.Fatal("Unknown identity verifier: ", config.UseVerifier)
	}
	if err = globals.verifier.Init(config.Verifiers[config.UseVerifier]); err != nil {
		logs.Err.Fatalf("Failed to initialize identity verifier '%s': %v", config.UseVerifier, err)
	}
	logs.Info.Println("Identity verifier:", config.UseVerifier)

	mux := http.NewServeMux()
	mux.HandleFunc("/", serve404)

	wsPath := config.WSPath
	if wsPath == "" {
		wsPath = "/v0/channels"
	}
	mux.HandleFunc(wsPath, serveWebSocket)
	logs.Info.Printf("Serving websocket clients at '%s'", wsPath)

	// Exposing values for statistics and monitoring.
	evpath := *expvarPath
	if evpath == "" {
		evpath = config.ExpvarPath
	}
	statsInit(mux, evpath)
	statsRegisterInt("Version")
	decVersion := base10Version(parseVersion(currentVersion))
	statsSet("Version", decVersion)
	statsRegisterInt("LiveSessions")
	statsRegisterInt("TotalSessions")
	statsRegisterInt("VerifiedSessions")
	statsRegisterInt("FailedVerifications")
	statsRegisterInt("DroppedUnauthenticated")
	statsRegisterInt("LiveSubscriptions")
	statsRegisterInt("IncomingMessagesWebsockTotal")
	statsRegisterInt("OutgoingMessagesWebsockTotal")
	statsRegisterHistogram("RequestDuration", []float64{1, 2, 5, 10, 50, 100, 1000, 10000})

	var tlsConf tlsConfig
	if len(config.TLS) > 0 {
		if err = json.Unmarshal(config.TLS, &tlsConf); err != nil {
			logs.Err.Fatal("Failed to parse tls config: ", err)
		}
	}
	tlsSrv, err := tlsServerConfig(tlsConf)
	if err != nil {
		logs.Err.Fatal("Failed to configure TLS: ", err)
	}
	globals.tlsRedirectHTTP = tlsConf.RedirectHTTP
	if tlsConf.StrictMaxAge > 0 {
		globals.tlsStrictMaxAge = strconv.Itoa(tlsConf.StrictMaxAge)
	}

	var handler http.Handler = mux
	if config.AccessLog != "" {
		out := os.Stdout
		if config.AccessLog != "stdout" {
			out, err = os.OpenFile(toAbsolutePath(curwd, config.AccessLog),
				os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				logs.Err.Fatal("Failed to open access log: ", err)
			}
			defer out.Close()
		}
		handler = handlers.CombinedLoggingHandler(out, mux)
	}
	handler = hstsHandler(handler)

	if err = listenAndServe(config.Listen, handler, tlsSrv, signalHandler()); err != nil {
		logs.Err.Fatal(err)
	}
}

// Convert relative filepath to absolute.
func toAbsolutePath(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(base, path))
}
