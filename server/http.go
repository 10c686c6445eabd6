/******************************************************************************
 *
 *  Description :
 *
 *    Web server initialization and shutdown.
 *
 *****************************************************************************/

package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Black3800/zeeu-api/server/logs"
	"golang.org/x/crypto/acme/autocert"
)

var errUnixSocketRedirect = errors.New("HTTP to HTTPS redirect not available on unix sockets")

// tlsAutocertConfig holds the ACME certificate manager settings.
type tlsAutocertConfig struct {
	// Domains to support by autocert.
	Domains []string `json:"domains"`
	// Name of directory where auto-certificates are cached.
	CertCache string `json:"cache"`
	// Contact email for letsencrypt.
	Email string `json:"email"`
}

type tlsConfig struct {
	// Flag enabling TLS.
	Enabled bool `json:"enabled"`
	// Listen for connections on this address:port and redirect them to HTTPS port.
	RedirectHTTP string `json:"http_redirect"`
	// Enable Strict-Transport-Security by setting max_age > 0.
	StrictMaxAge int `json:"strict_max_age"`
	// Server certificate file.
	CertFile string `json:"cert_file"`
	// Server key file.
	KeyFile string `json:"key_file"`
	// Letsencrypt configuration.
	Autocert *tlsAutocertConfig `json:"autocert"`
}

func tlsServerConfig(config tlsConfig) (*tls.Config, error) {
	if !config.Enabled {
		return nil, nil
	}

	if config.Autocert != nil {
		certManager := autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(config.Autocert.Domains...),
			Cache:      autocert.DirCache(config.Autocert.CertCache),
			Email:      config.Autocert.Email,
		}
		return certManager.TLSConfig(), nil
	}

	cert, err := tls.LoadX509KeyPair(config.CertFile, config.KeyFile)
	if err != nil {
		return nil, err
	}

	return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
}

func listenAndServe(addr string, mux http.Handler, tlfConf *tls.Config, stop <-chan bool) error {
	globals.shuttingDown = false

	httpdone := make(chan bool)

	server := &http.Server{
		// Slightly greater than the websocket write timeout.
		WriteTimeout: writeWait + time.Second,
		ReadTimeout:  pongWait + time.Second,
		Handler:      mux,
		TLSConfig:    tlfConf,
	}

	go func() {
		var err error
		if server.TLSConfig != nil {
			// If port is not specified, use default https port (443),
			// otherwise it will default to 80
			if addr == "" {
				addr = ":https"
			}

			if globals.tlsRedirectHTTP != "" {
				// Serving redirects from a unix socket or to a unix socket makes no sense.
				if isUnixAddr(globals.tlsRedirectHTTP) || isUnixAddr(addr) {
					err = errUnixSocketRedirect
				} else {
					logs.Info.Printf("Redirecting connections from HTTP at [%s] to HTTPS at [%s]",
						globals.tlsRedirectHTTP, addr)

					// This is a self-contained task, no need to wait for it to finish.
					go http.ListenAndServe(globals.tlsRedirectHTTP, tlsRedirect(addr))
				}
			}

			if err == nil {
				logs.Info.Printf("Listening for client HTTPS connections on [%s]", addr)
				err = serveOn(server, addr, true)
			}
		} else {
			logs.Info.Printf("Listening for client HTTP connections on [%s]", addr)
			err = serveOn(server, addr, false)
		}

		if err != nil && err != http.ErrServerClosed {
			logs.Err.Println("HTTP server failed:", err)
		}

		httpdone <- true
	}()

	// Wait for either a termination signal or an error
Loop:
	for {
		select {
		case <-stop:
			// Flip the flag that we are terminating and close the Accept-ing socket, so no new connections are possible.
			globals.shuttingDown = true
			// Give server 2 seconds to shut down.
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := server.Shutdown(ctx); err != nil {
				// failure/timeout shutting down the server gracefully
				logs.Err.Println("HTTP server failed to terminate gracefully", err)
			}

			// While the server shuts down, terminate all sessions.
			globals.sessionStore.Shutdown()

			// Wait for http server to stop Accept()-ing connections.
			<-httpdone
			cancel()

			// Shutdown local cache.
			statsShutdown()
			break Loop

		case <-httpdone:
			break Loop
		}
	}
	return nil
}

// serveOn starts the server on a TCP address or a unix socket
// ("unix:/path/to.sock").
func serveOn(server *http.Server, addr string, tlsEnabled bool) error {
	if isUnixAddr(addr) {
		addr = strings.TrimPrefix(addr, "unix:")
		lis, err := net.Listen("unix", addr)
		if err != nil {
			return err
		}
		if tlsEnabled {
			return server.ServeTLS(lis, "", "")
		}
		return server.Serve(lis)
	}
	server.Addr = addr
	if tlsEnabled {
		return server.ListenAndServeTLS("", "")
	}
	return server.ListenAndServe()
}

func isUnixAddr(addr string) bool {
	return strings.HasPrefix(addr, "unix:")
}

func signalHandler() <-chan bool {
	stop := make(chan bool)

	signchan := make(chan os.Signal, 1)
	signal.Notify(signchan, os.Interrupt, syscall.SIGTERM)

	go func() {
		// Wait for a signal. Don't care which signal it is
		sig := <-signchan
		logs.Info.Printf("Signal received: '%s', shutting down", sig)
		stop <- true
	}()

	return stop
}

// Wrapper for http.Handler which optionally adds a Strict-Transport-Security to the response.
func hstsHandler(handler http.Handler) http.Handler {
	if globals.tlsStrictMaxAge != "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Strict-Transport-Security", "max-age="+globals.tlsStrictMaxAge)
			handler.ServeHTTP(w, r)
		})
	}
	return handler
}

// Redirect HTTP requests to HTTPS.
func tlsRedirect(toPort string) http.HandlerFunc {
	if i := strings.Index(toPort, ":"); i >= 0 {
		toPort = toPort[i+1:]
	} else {
		toPort = ""
	}
	return func(wrt http.ResponseWriter, req *http.Request) {
		host, _, err := net.SplitHostPort(req.Host)
		if err != nil {
			// If SplitHostPort has failed assume it's because :port part is missing.
			host = req.Host
		}

		target, _ := url.Parse(req.URL.String())
		target.Scheme = "https"

		// Ensure valid redirect target.
		if toPort != "" && toPort != "443" {
			// Replace the port number.
			target.Host = net.JoinHostPort(host, toPort)
		} else {
			target.Host = host
		}

		if target.Path == "" {
			target.Path = "/"
		}

		http.Redirect(wrt, req, target.String(), http.StatusTemporaryRedirect)
	}
}

// Custom 404 response.
func serve404(wrt http.ResponseWriter, req *http.Request) {
	wrt.Header().Set("Content-Type", "application/json; charset=utf-8")
	wrt.WriteHeader(http.StatusNotFound)
	json.NewEncoder(wrt).Encode(map[string]any{
		"code": http.StatusNotFound, "text": "not found", "ts": time.Now().UTC().Round(time.Millisecond),
	})
}

// Check if the given IP address is a routable public IP address.
func isRoutableIP(addr string) bool {
	// Unwrap "ip:port" if necessary.
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	ip := net.ParseIP(addr)
	return ip != nil && !ip.IsUnspecified() && !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsLinkLocalUnicast() &&
		!ip.IsLinkLocalMulticast() && !ip.IsInterfaceLocalMulticast() && !ip.IsMulticast()
}
