package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/umeshlumbhani/wifi-creds/internal/interfaces"
	"github.com/umeshlumbhani/wifi-creds/internal/models"
	"github.com/umeshlumbhani/wifi-creds/internal/modules/header"
)

// HTTPServer serves the credential table read-only over HTTP
type HTTPServer struct {
	Log             *logrus.Logger
	Cfg             models.ConfigHandler
	Table           models.Table
	NetworkManager  interfaces.Network
	Server          *http.Server
	isServerStarted bool
}

// CredentialResponse is one table entry without its secrets
type CredentialResponse struct {
	Index       int    `json:"index"`
	SSID        string `json:"ssid"`
	AuthType    string `json:"authType"`
	Cipher      string `json:"cipher"`
	HasPassword bool   `json:"hasPassword"`
}

// NewHTTPServer creates the HTTP module. nw may be nil when scanning is
// disabled.
func NewHTTPServer(l *logrus.Logger, t models.Table, nw interfaces.Network, cfg models.ConfigHandler) *HTTPServer {
	return &HTTPServer{
		Log:             l,
		Cfg:             cfg,
		Table:           t,
		NetworkManager:  nw,
		isServerStarted: false,
	}
}

// Handler returns Router
func (h *HTTPServer) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", h.Health).Methods("GET")
	router.HandleFunc("/credentials", h.GetCredentials).Methods("GET")
	router.HandleFunc("/credentials/{index:[0-9]+}", h.GetCredential).Methods("GET")
	router.HandleFunc("/networks", h.GetNetworks).Methods("GET")
	router.HandleFunc("/wifi_creds.h", h.GetHeader).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Content-Length", "X-Requested-With", "Accept", "Origin"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	})
	return c.Handler(router)
}

// StartHTTPServer starts listening in the background
func (h *HTTPServer) StartHTTPServer() {
	h.Log.Info("Start HTTP Server")
	s := &http.Server{
		Addr:         fmt.Sprintf(":%s", h.Cfg.Fetch().Port),
		Handler:      h.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  5 * time.Second,
	}

	go func() {
		h.Log.Info(fmt.Sprintf("HTTP Server listening on %s", s.Addr))
		err := s.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			h.Log.Error(fmt.Sprintf("StartHTTPServer - found error on ListenAndServe : %v", err))
		}
		h.Log.Info("HTTPServer Closed")
	}()

	h.Server = s
	h.isServerStarted = true
}

// CloseHTTPServer used to close HTTP server
func (h *HTTPServer) CloseHTTPServer() {
	if h.isServerStarted && h.Server != nil {
		h.Server.Close()
		h.isServerStarted = false
		h.Server = nil
	}
}

// Health reports liveness and the number of stored networks
func (h *HTTPServer) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]int{"networks": h.Table.Len()})
}

// GetCredentials lists the table in declaration order
func (h *HTTPServer) GetCredentials(w http.ResponseWriter, r *http.Request) {
	h.Log.Debug("'GetCredentials' called via http request")
	resp := make([]CredentialResponse, 0, h.Table.Len())
	for i, c := range h.Table.All() {
		resp = append(resp, toResponse(i, c))
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// GetCredential returns a single entry by its declaration index
func (h *HTTPServer) GetCredential(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || i < 0 || i >= h.Table.Len() {
		respondWithError(w, http.StatusNotFound, "Not Found")
		return
	}
	respondWithJSON(w, http.StatusOK, toResponse(i, h.Table.At(i)))
}

// GetNetworks method used to retrieve list of networks
func (h *HTTPServer) GetNetworks(w http.ResponseWriter, r *http.Request) {
	h.Log.Info("'GetNetworks' called via http request")
	if h.NetworkManager == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Scanning Disabled")
		return
	}
	ap, err := h.NetworkManager.GetAccessPoint()
	if err != nil {
		h.Log.Error(fmt.Sprintf("GetNetworks - found error on GetAccessPoint: %s", err.Error()))
		respondWithError(w, http.StatusInternalServerError, "Internal Error")
		return
	}
	if ap == nil {
		ap = []models.AccessPoint{}
	}
	respondWithJSON(w, http.StatusOK, ap)
}

// GetHeader renders the firmware header
func (h *HTTPServer) GetHeader(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := header.Render(&buf, h.Table, header.Options{Redact: !h.Cfg.Fetch().ServeSecrets})
	if err != nil {
		h.Log.Error(fmt.Sprintf("GetHeader - %s", err.Error()))
		respondWithError(w, http.StatusInternalServerError, "Internal Error")
		return
	}
	w.Header().Set("Content-Type", "text/x-c; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func toResponse(i int, c models.Credential) CredentialResponse {
	return CredentialResponse{
		Index:       i,
		SSID:        c.SSID,
		AuthType:    c.AuthType.String(),
		Cipher:      c.Cipher.String(),
		HasPassword: c.Password != "",
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		response = []byte{}
		code = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
